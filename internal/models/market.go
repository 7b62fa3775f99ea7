package models

import (
	"time"
)

type MarketStatus string

const (
	MarketStatusScheduled MarketStatus = "SCHEDULED"
	MarketStatusLive      MarketStatus = "LIVE"
	MarketStatusFinished  MarketStatus = "FINISHED"
	MarketStatusResolved  MarketStatus = "RESOLVED"
	MarketStatusPostponed MarketStatus = "POSTPONED"
	MarketStatusCancelled MarketStatus = "CANCELLED"
)

// IsTerminal reports whether no further status transition is allowed
func (s MarketStatus) IsTerminal() bool {
	return s == MarketStatusResolved || s == MarketStatusCancelled
}

type Outcome string

const (
	OutcomeHome Outcome = "Home"
	OutcomeDraw Outcome = "Draw"
	OutcomeAway Outcome = "Away"
)

// Outcomes lists every valid prediction value
var Outcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// Valid reports whether o is one of the known prediction values
func (o Outcome) Valid() bool {
	return o == OutcomeHome || o == OutcomeDraw || o == OutcomeAway
}

// Market represents a prediction market tied to a football match
type Market struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	CreatorID         uint         `gorm:"not null;index" json:"creator_id"`
	Creator           *User        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Title             string       `gorm:"size:500;not null" json:"title"`
	Description       string       `gorm:"type:text" json:"description"`
	EntryFee          int64        `gorm:"not null" json:"entry_fee"`
	EndTime           time.Time    `gorm:"not null;index" json:"end_time"`
	Status            MarketStatus `gorm:"size:50;not null;default:SCHEDULED;index" json:"status"`
	ResolutionOutcome *Outcome     `gorm:"size:50" json:"resolution_outcome,omitempty"`
	TotalPool         int64        `gorm:"not null;default:0" json:"total_pool"`
	PlatformFeeBps    int          `gorm:"not null" json:"platform_fee_bps"`
	CreatorRewardBps  int          `gorm:"not null" json:"creator_reward_bps"`
	MatchID           int64        `gorm:"not null;index" json:"match_id"`
	HomeTeam          string       `gorm:"size:255" json:"home_team"`
	AwayTeam          string       `gorm:"size:255" json:"away_team"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	ResolvedAt        *time.Time   `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Market model
func (Market) TableName() string {
	return "markets"
}

// CreateMarketRequest represents a request to create a new market
type CreateMarketRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	EntryFee    string    `json:"entry_fee" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	MatchID     int64     `json:"match_id" binding:"required"`
	HomeTeam    string    `json:"home_team" binding:"required"`
	AwayTeam    string    `json:"away_team" binding:"required"`
}

// JoinMarketRequest represents a request to join a market
type JoinMarketRequest struct {
	Prediction Outcome `json:"prediction" binding:"required"`
	Amount     string  `json:"amount" binding:"required"`
}

// MarketStats aggregates participation data for a single market
type MarketStats struct {
	MarketID         uint              `json:"market_id"`
	Status           MarketStatus      `json:"status"`
	TotalPool        int64             `json:"total_pool"`
	ParticipantCount int64             `json:"participant_count"`
	PredictionCounts map[Outcome]int64 `json:"prediction_counts"`
}
