package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rating is a technical rating on a stock pick
type Rating string

const (
	RatingStrongBuy  Rating = "Strong Buy"
	RatingBuy        Rating = "Buy"
	RatingHold       Rating = "Hold"
	RatingSell       Rating = "Sell"
	RatingStrongSell Rating = "Strong Sell"
)

// Score orders ratings from 2 (Strong Buy) to -2 (Strong Sell)
func (r Rating) Score() int {
	switch r {
	case RatingStrongBuy:
		return 2
	case RatingBuy:
		return 1
	case RatingSell:
		return -1
	case RatingStrongSell:
		return -2
	default:
		return 0
	}
}

// ParseRating accepts a rating in any case, with spaces, dashes or
// underscores between words.
func ParseRating(s string) (Rating, bool) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range []Rating{RatingStrongBuy, RatingBuy, RatingHold, RatingSell, RatingStrongSell} {
		if norm == strings.ToLower(string(r)) {
			return r, true
		}
	}
	return "", false
}

// RatingChange marks a pick whose rating moved since the last ranking
type RatingChange string

const (
	RatingUpgraded   RatingChange = "Upgraded"
	RatingDowngraded RatingChange = "Downgraded"
	RatingNew        RatingChange = "New"
)

// StockPick is one ranked entry of the stock picker
type StockPick struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	IQScore         int             `json:"iqScore"`
	StockRank       int             `json:"stockRank"`
	TechnicalRating Rating          `json:"technicalRating"`
	Price           decimal.Decimal `json:"price"`
	Change          decimal.Decimal `json:"change"`
	ChangePercent   decimal.Decimal `json:"changePercent"`
	Confidence      int             `json:"aiConfidence"`
	MarketCap       string          `json:"marketCap"`
	Sector          string          `json:"sector"`
	Signal          string          `json:"signal"`
	RatingChange    RatingChange    `json:"ratingChange,omitempty"`
}

// Analyst is a row of the consensus leaderboard
type Analyst struct {
	Rank     int             `json:"rank"`
	Name     string          `json:"analyst"`
	Accuracy decimal.Decimal `json:"accuracy"`
	Picks    int             `json:"picks"`
	Wins     int             `json:"wins"`
	Streak   int             `json:"streak"`
}
