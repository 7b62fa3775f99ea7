package models

import (
	"time"
)

// MaxPredictionsPerMarket caps how many predictions one user may hold in a
// single market, one per outcome value.
const MaxPredictionsPerMarket = 3

// Participant represents one user's prediction and stake on a market
type Participant struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	MarketID          uint      `gorm:"not null;index;uniqueIndex:idx_market_user_prediction" json:"market_id"`
	Market            *Market   `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	UserID            uint      `gorm:"not null;index;uniqueIndex:idx_market_user_prediction" json:"user_id"`
	User              *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Prediction        Outcome   `gorm:"size:50;not null;uniqueIndex:idx_market_user_prediction" json:"prediction"`
	EntryAmount       int64     `gorm:"not null" json:"entry_amount"`
	PotentialWinnings int64     `gorm:"not null;default:0" json:"potential_winnings"`
	ActualWinnings    *int64    `json:"actual_winnings,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for Participant model
func (Participant) TableName() string {
	return "participants"
}
