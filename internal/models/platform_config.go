package models

import (
	"time"
)

// Platform config keys read by the market service
const (
	ConfigKeyPlatformFeeBps   = "platform_fee_bps"
	ConfigKeyCreatorRewardBps = "creator_reward_bps"
)

// Defaults used when the key is missing from platform_config
const (
	DefaultPlatformFeeBps   = 300
	DefaultCreatorRewardBps = 200
)

// PlatformConfig is a global key/value store for fee percentages and limits
type PlatformConfig struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PlatformConfig model
func (PlatformConfig) TableName() string {
	return "platform_config"
}
