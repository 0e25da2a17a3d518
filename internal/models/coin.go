package models

import (
	"strings"
	"time"
)

// Coin is a tracked asset identified by its CoinGecko id.
type Coin struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CoinGeckoID   string     `json:"coingecko_id" gorm:"column:coingecko_id;type:varchar(120);not null;uniqueIndex:uq_coins_coingecko_id"`
	Symbol        string     `json:"symbol" gorm:"column:symbol;type:varchar(20);not null;index:ix_coins_symbol"`
	Name          string     `json:"name" gorm:"column:name;type:varchar(120);not null"`
	Image         *string    `json:"image,omitempty" gorm:"column:image_url;type:varchar(255)"`
	MarketCapRank *int       `json:"market_cap_rank,omitempty" gorm:"column:market_cap_rank"`
	Description   *string    `json:"description,omitempty" gorm:"column:description;type:text"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty" gorm:"column:last_synced_at"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Coin) TableName() string {
	return "coins"
}

// HasDescription reports whether a non-blank description is stored.
func (c *Coin) HasDescription() bool {
	return c.Description != nil && strings.TrimSpace(*c.Description) != ""
}

// ImageURL returns the image or an empty string.
func (c *Coin) ImageURL() string {
	if c.Image == nil {
		return ""
	}
	return *c.Image
}
