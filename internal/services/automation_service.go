package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"matchmarket/internal/footballdata"
	"matchmarket/internal/models"
	"matchmarket/internal/repository"
)

// AutomationService keeps market statuses in sync with the external match
// feed and resolves markets whose matches have finished
type AutomationService struct {
	repo    *repository.Repository
	matches footballdata.Client
	markets *MarketService
}

func NewAutomationService(
	repo *repository.Repository,
	matches footballdata.Client,
	markets *MarketService,
) *AutomationService {
	return &AutomationService{
		repo:    repo,
		matches: matches,
		markets: markets,
	}
}

// SyncResult reports the status check for one market
type SyncResult struct {
	MarketID  uint                `json:"market_id"`
	MatchID   int64               `json:"match_id"`
	OldStatus models.MarketStatus `json:"old_status"`
	NewStatus models.MarketStatus `json:"new_status"`
	Updated   bool                `json:"updated"`
	Err       string              `json:"error,omitempty"`
}

// ResolutionResult reports the resolution attempt for one market
type ResolutionResult struct {
	MarketID uint           `json:"market_id"`
	MatchID  int64          `json:"match_id"`
	Outcome  models.Outcome `json:"outcome,omitempty"`
	Resolved bool           `json:"resolved"`
	Err      string         `json:"error,omitempty"`
}

// CycleReport summarizes one automation cycle
type CycleReport struct {
	SyncResults []SyncResult       `json:"sync_results"`
	Resolutions []ResolutionResult `json:"resolutions"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// mapMatchStatus maps the football-data status vocabulary onto the market
// lifecycle. Total: every input maps to exactly one status, unrecognized
// values fall back to SCHEDULED.
func mapMatchStatus(status string) models.MarketStatus {
	switch status {
	case footballdata.StatusScheduled, footballdata.StatusTimed:
		return models.MarketStatusScheduled
	case footballdata.StatusInPlay, footballdata.StatusPaused, footballdata.StatusSuspended:
		return models.MarketStatusLive
	case footballdata.StatusFinished, footballdata.StatusAwarded:
		return models.MarketStatusFinished
	case footballdata.StatusPostponed:
		return models.MarketStatusPostponed
	case footballdata.StatusCancelled:
		return models.MarketStatusCancelled
	default:
		return models.MarketStatusScheduled
	}
}

// outcomeFromScore derives the market outcome from a final score. The
// second return is false when either side of the score is missing.
func outcomeFromScore(score footballdata.Score) (models.Outcome, bool) {
	home, away := score.FullTime.Home, score.FullTime.Away
	if home == nil || away == nil {
		return "", false
	}
	switch {
	case *home > *away:
		return models.OutcomeHome, true
	case *home < *away:
		return models.OutcomeAway, true
	default:
		return models.OutcomeDraw, true
	}
}

// SyncMatchStatuses checks every market that can still change state against
// the match feed and persists the mapped status when it differs. One failed
// fetch never aborts the batch.
func (s *AutomationService) SyncMatchStatuses(ctx context.Context) ([]SyncResult, error) {
	markets, err := s.repo.ListMarketsByStatus(ctx,
		models.MarketStatusScheduled,
		models.MarketStatusLive,
		models.MarketStatusPostponed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets for sync: %w", err)
	}

	results := make([]SyncResult, 0, len(markets))
	for _, market := range markets {
		result := SyncResult{
			MarketID:  market.ID,
			MatchID:   market.MatchID,
			OldStatus: market.Status,
			NewStatus: market.Status,
		}

		match, err := s.matches.GetMatch(ctx, market.MatchID)
		if err != nil {
			result.Err = err.Error()
			log.Printf("[AutomationService] Failed to fetch match %d for market %d: %v",
				market.MatchID, market.ID, err)
			results = append(results, result)
			continue
		}

		mapped := mapMatchStatus(match.Status)
		result.NewStatus = mapped

		if mapped != market.Status {
			if err := s.repo.UpdateMarket(ctx, market.ID, map[string]interface{}{
				"status": mapped,
			}); err != nil {
				result.Err = err.Error()
				result.NewStatus = market.Status
				results = append(results, result)
				continue
			}
			result.Updated = true
			log.Printf("[AutomationService] Market %d status: %s -> %s",
				market.ID, market.Status, mapped)
		}

		results = append(results, result)
	}

	return results, nil
}

// ResolveFinishedMarkets resolves every FINISHED market whose final score is
// available. Markets without a usable score are skipped with an error
// result, never force-resolved. Each market succeeds or fails on its own.
func (s *AutomationService) ResolveFinishedMarkets(ctx context.Context) ([]ResolutionResult, error) {
	markets, err := s.repo.ListUnresolvedFinishedMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished markets: %w", err)
	}

	results := make([]ResolutionResult, 0, len(markets))
	for _, market := range markets {
		result := ResolutionResult{
			MarketID: market.ID,
			MatchID:  market.MatchID,
		}

		match, err := s.matches.GetMatch(ctx, market.MatchID)
		if err != nil {
			result.Err = err.Error()
			log.Printf("[AutomationService] Failed to fetch final score for market %d: %v",
				market.ID, err)
			results = append(results, result)
			continue
		}

		outcome, ok := outcomeFromScore(match.Score)
		if !ok {
			result.Err = fmt.Sprintf("final score unavailable for match %d", market.MatchID)
			log.Printf("[AutomationService] Skipping market %d: %s", market.ID, result.Err)
			results = append(results, result)
			continue
		}

		if _, err := s.markets.ResolveMarket(ctx, market.ID, outcome); err != nil {
			result.Err = err.Error()
			log.Printf("[AutomationService] Failed to resolve market %d: %v", market.ID, err)
			results = append(results, result)
			continue
		}

		result.Outcome = outcome
		result.Resolved = true
		results = append(results, result)
	}

	return results, nil
}

// RunAutomationCycle runs one sync pass followed by one resolution pass, so
// a market whose match just finished is resolved within the same cycle.
// With unchanged external state a repeat cycle performs no writes.
func (s *AutomationService) RunAutomationCycle(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{StartedAt: time.Now()}

	syncResults, err := s.SyncMatchStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("status sync failed: %w", err)
	}
	report.SyncResults = syncResults

	resolutions, err := s.ResolveFinishedMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolution pass failed: %w", err)
	}
	report.Resolutions = resolutions

	report.FinishedAt = time.Now()
	return report, nil
}
