package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount keeps an upstream numeric field in its textual form so it can be
// converted to a fixed-precision decimal without a float round trip.
// An empty Amount means the field was absent or null.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(str))
		return nil
	}
	*a = Amount(s)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// Decimal converts the amount. Absent or unparsable values are not Valid.
func (a Amount) Decimal() decimal.NullDecimal {
	if a == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// AssetQuote is one entry of the /coins/markets listing.
type AssetQuote struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	CurrentPrice  Amount `json:"current_price"`
	MarketCap     Amount `json:"market_cap"`
	MarketCapRank *int   `json:"market_cap_rank"`
	TotalVolume   Amount `json:"total_volume"`
	ATH           Amount `json:"ath"`
	Change1h      Amount `json:"price_change_percentage_1h_in_currency"`
	Change24h     Amount `json:"price_change_percentage_24h_in_currency"`
	Change7d      Amount `json:"price_change_percentage_7d_in_currency"`
}

// PricePoint is one [timestamp_ms, price] sample of a market chart.
type PricePoint struct {
	TimestampMs int64  `json:"t"`
	Price       Amount `json:"p"`
}

// AssetDetail merges /coins/{id} with its /market_chart window.
type AssetDetail struct {
	ID            string       `json:"id"`
	Symbol        string       `json:"symbol"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	CurrentPrice  Amount       `json:"current_price"`
	MarketCap     Amount       `json:"market_cap"`
	MarketCapRank *int         `json:"market_cap_rank"`
	TotalVolume   Amount       `json:"total_volume"`
	ATH           Amount       `json:"ath"`
	Change1h      Amount       `json:"change_1h"`
	Change24h     Amount       `json:"change_24h"`
	Change7d      Amount       `json:"change_7d"`
	Prices        []PricePoint `json:"prices"`
}

type coinInfoPayload struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	Description   map[string]string `json:"description"`
	MarketCapRank *int              `json:"market_cap_rank"`
	Image         struct {
		Large string `json:"large"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice map[string]Amount `json:"current_price"`
		MarketCap    map[string]Amount `json:"market_cap"`
		TotalVolume  map[string]Amount `json:"total_volume"`
		ATH          map[string]Amount `json:"ath"`
		Change1h     map[string]Amount `json:"price_change_percentage_1h_in_currency"`
		Change24h    map[string]Amount `json:"price_change_percentage_24h_in_currency"`
		Change7d     map[string]Amount `json:"price_change_percentage_7d_in_currency"`
	} `json:"market_data"`
}

type marketChartPayload struct {
	Prices [][]json.RawMessage `json:"prices"`
}

func (p *coinInfoPayload) toDetail(vsCurrency string) *AssetDetail {
	md := p.MarketData
	return &AssetDetail{
		ID:            p.ID,
		Symbol:        p.Symbol,
		Name:          p.Name,
		Description:   strings.TrimSpace(p.Description["en"]),
		Image:         p.Image.Large,
		CurrentPrice:  md.CurrentPrice[vsCurrency],
		MarketCap:     md.MarketCap[vsCurrency],
		MarketCapRank: p.MarketCapRank,
		TotalVolume:   md.TotalVolume[vsCurrency],
		ATH:           md.ATH[vsCurrency],
		Change1h:      md.Change1h[vsCurrency],
		Change24h:     md.Change24h[vsCurrency],
		Change7d:      md.Change7d[vsCurrency],
	}
}

// points drops samples whose timestamp is not a number.
func (p *marketChartPayload) points() []PricePoint {
	out := make([]PricePoint, 0, len(p.Prices))
	for _, pair := range p.Prices {
		if len(pair) < 2 {
			continue
		}
		ts, err := strconv.ParseFloat(strings.TrimSpace(string(pair[0])), 64)
		if err != nil {
			continue
		}
		var price Amount
		if err := price.UnmarshalJSON(pair[1]); err != nil {
			continue
		}
		out = append(out, PricePoint{TimestampMs: int64(ts), Price: price})
	}
	return out
}
