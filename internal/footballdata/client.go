package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.football-data.org"

// Match statuses returned by the football-data API
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusSuspended = "SUSPENDED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
	StatusAwarded   = "AWARDED"
)

// ScorePair holds one side of a match score; nil until the API reports it
type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Winner   string    `json:"winner,omitempty"`
	FullTime ScorePair `json:"fullTime"`
	HalfTime ScorePair `json:"halfTime"`
}

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Match is the subset of the football-data match payload the automation
// service depends on
type Match struct {
	ID       int64  `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	HomeTeam Team   `json:"homeTeam"`
	AwayTeam Team   `json:"awayTeam"`
	Score    Score  `json:"score"`
}

// Client fetches match status and score for a single match
type Client interface {
	GetMatch(ctx context.Context, matchID int64) (*Match, error)
}

// HTTPClient talks to the football-data v4 API
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

func NewHTTPClient(authToken, baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		authToken: authToken,
	}
}

// GetMatch fetches a single match by ID
func (c *HTTPClient) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	url := fmt.Sprintf("%s/v4/matches/%d", c.baseURL, matchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %d: %w", matchID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("football-data API error: %d - %s", resp.StatusCode, string(body))
	}

	var match Match
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return nil, fmt.Errorf("failed to decode match response: %w", err)
	}

	return &match, nil
}
