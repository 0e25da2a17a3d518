package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinSnapshot is the immutable metric set of one coin at one instant in one
// quote currency. (coin_id, vs_currency, recorded_at) is unique.
type CoinSnapshot struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CoinID     uint      `json:"coin_id" gorm:"column:coin_id;not null;uniqueIndex:uq_snapshots_coin_timestamp,priority:1"`
	Coin       *Coin     `json:"-" gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
	VsCurrency string    `json:"vs_currency" gorm:"column:vs_currency;type:varchar(16);not null;uniqueIndex:uq_snapshots_coin_timestamp,priority:2;index:ix_snapshots_vs_recorded,priority:1"`
	RecordedAt time.Time `json:"recorded_at" gorm:"column:recorded_at;not null;uniqueIndex:uq_snapshots_coin_timestamp,priority:3;index:ix_snapshots_vs_recorded,priority:2"`

	Price       decimal.Decimal     `json:"price" gorm:"column:price;type:numeric(20,8);not null"`
	MarketCap   decimal.NullDecimal `json:"market_cap" gorm:"column:market_cap;type:numeric(24,2)"`
	TotalVolume decimal.NullDecimal `json:"total_volume" gorm:"column:total_volume;type:numeric(24,2)"`
	Change1h    decimal.NullDecimal `json:"change_1h" gorm:"column:change_1h;type:numeric(10,4)"`
	Change24h   decimal.NullDecimal `json:"change_24h" gorm:"column:change_24h;type:numeric(10,4)"`
	Change7d    decimal.NullDecimal `json:"change_7d" gorm:"column:change_7d;type:numeric(10,4)"`
	ATH         decimal.NullDecimal `json:"ath" gorm:"column:ath;type:numeric(20,8)"`
}

// TableName specifies the table name for GORM
func (CoinSnapshot) TableName() string {
	return "coin_snapshots"
}
