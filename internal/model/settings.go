package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the user preference blob. It is persisted to redis on explicit
// save only; the backend stays the source of truth for reference data.
type Settings struct {
	Theme                string          `json:"theme"`
	Font                 string          `json:"font"`
	RiskPercent          decimal.Decimal `json:"risk_percent"`
	DefaultHolderID      string          `json:"default_holder_id"`
	NotificationCooldown time.Duration   `json:"notification_cooldown"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:                "dark",
		Font:                 "default",
		RiskPercent:          decimal.NewFromInt(2),
		DefaultHolderID:      AllHolders,
		NotificationCooldown: 15 * time.Minute,
	}
}
