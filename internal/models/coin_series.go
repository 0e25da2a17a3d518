package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinSeries is one historical price sample. The rows for a (coin, currency)
// pair are replaced wholesale on every series sync.
type CoinSeries struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CoinID     uint            `json:"coin_id" gorm:"column:coin_id;not null;uniqueIndex:uq_series_coin_vs_ts,priority:1;index:ix_series_coin_vs_time,priority:1"`
	Coin       *Coin           `json:"-" gorm:"foreignKey:CoinID;constraint:OnDelete:CASCADE"`
	VsCurrency string          `json:"vs_currency" gorm:"column:vs_currency;type:varchar(16);not null;uniqueIndex:uq_series_coin_vs_ts,priority:2;index:ix_series_coin_vs_time,priority:2"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"column:recorded_at;not null;uniqueIndex:uq_series_coin_vs_ts,priority:3;index:ix_series_coin_vs_time,priority:3"`
	Price      decimal.Decimal `json:"price" gorm:"column:price;type:numeric(20,8);not null"`
}

// TableName specifies the table name for GORM
func (CoinSeries) TableName() string {
	return "coin_series"
}
