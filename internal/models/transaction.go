package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeMarketEntry   TransactionType = "market_entry"
	TransactionTypeWinnings      TransactionType = "winnings"
	TransactionTypeCreatorReward TransactionType = "creator_reward"
	TransactionTypePlatformFee   TransactionType = "platform_fee"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction is an append-only ledger entry. Rows are never mutated apart
// from the status transition PENDING -> COMPLETED.
type Transaction struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MarketID    uint              `gorm:"not null;index" json:"market_id"`
	Type        TransactionType   `gorm:"size:50;not null;index" json:"type"`
	Amount      int64             `gorm:"not null" json:"amount"`
	Description string            `gorm:"type:text" json:"description"`
	Status      TransactionStatus `gorm:"size:50;not null;default:PENDING" json:"status"`
	Metadata    string            `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
