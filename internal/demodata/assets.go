// Package demodata holds the static datasets the dashboard falls back to when
// the API is unreachable, and that seed the server's reference catalog.
// Every function returns a fresh copy.
package demodata

import (
	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quote(rank int, symbol, name, price, change, changePct string, iq int, volume, rsi, signal string, strength int, class models.AssetClass) models.AssetQuote {
	return models.AssetQuote{
		Rank:              rank,
		Symbol:            symbol,
		Name:              name,
		Price:             d(price),
		Change:            d(change),
		ChangePercent:     d(changePct),
		IQScore:           iq,
		Volume:            d(volume),
		RSI:               d(rsi),
		NarrativeSignal:   signal,
		NarrativeStrength: strength,
		Type:              class,
	}
}

// CryptoAssets returns the crypto leaderboard, ranked by IQ score
func CryptoAssets() []models.AssetQuote {
	c := models.AssetClassCrypto
	return []models.AssetQuote{
		quote(1, "BTC", "Bitcoin", "67234.50", "1523.40", "2.32", 94, "28500000000", "64.2", "Digital Gold", 88, c),
		quote(2, "ETH", "Ethereum", "3456.78", "98.12", "2.92", 91, "15200000000", "61.8", "Smart Contracts", 84, c),
		quote(3, "SOL", "Solana", "245.67", "18.45", "8.12", 89, "4800000000", "71.5", "DePIN Infrastructure", 85, c),
		quote(4, "RNDR", "Render", "10.84", "0.92", "9.27", 86, "620000000", "73.1", "AI & Machine Learning", 92, c),
		quote(5, "FIL", "Filecoin", "8.92", "-0.31", "-3.36", 78, "410000000", "44.7", "DePIN Infrastructure", 85, c),
		quote(6, "HNT", "Helium", "6.45", "0.28", "4.54", 76, "98000000", "58.3", "DePIN Infrastructure", 85, c),
		quote(7, "SAND", "The Sandbox", "0.62", "-0.05", "-7.46", 64, "310000000", "38.9", "Gaming & Metaverse", 71, c),
		quote(8, "MANA", "Decentraland", "0.58", "-0.04", "-6.45", 61, "185000000", "36.2", "Gaming & Metaverse", 71, c),
	}
}

// StockAssets returns the stock leaderboard, ranked by IQ score
func StockAssets() []models.AssetQuote {
	s := models.AssetClassStock
	return []models.AssetQuote{
		quote(1, "NVDA", "NVIDIA Corporation", "789.45", "32.18", "4.25", 96, "52000000000", "68.4", "AI & Machine Learning", 92, s),
		quote(2, "MSFT", "Microsoft Corporation", "415.32", "5.67", "1.38", 90, "22000000000", "59.1", "AI & Machine Learning", 92, s),
		quote(3, "GOOGL", "Alphabet Inc.", "172.45", "2.31", "1.36", 87, "18500000000", "57.6", "Quantum Computing", 68, s),
		quote(4, "AAPL", "Apple Inc.", "189.84", "-1.12", "-0.59", 85, "45000000000", "52.3", "Consumer Tech", 60, s),
		quote(5, "AMZN", "Amazon.com Inc.", "178.22", "1.89", "1.07", 84, "31000000000", "55.9", "AI & Machine Learning", 92, s),
		quote(6, "META", "Meta Platforms Inc.", "498.15", "-6.40", "-1.27", 80, "19000000000", "48.2", "Gaming & Metaverse", 71, s),
		quote(7, "TSLA", "Tesla Inc.", "177.58", "-9.84", "-5.25", 72, "38000000000", "34.8", "Clean Energy Transition", 78, s),
		quote(8, "JPM", "JPMorgan Chase & Co.", "198.73", "0.44", "0.22", 70, "9800000000", "50.4", "Financials", 55, s),
	}
}

// AllAssets returns crypto followed by stocks
func AllAssets() []models.AssetQuote {
	return append(CryptoAssets(), StockAssets()...)
}

// AssetsFor returns the assets matching filter
func AssetsFor(filter models.AssetFilter) []models.AssetQuote {
	switch filter {
	case models.FilterCrypto:
		return CryptoAssets()
	case models.FilterStock:
		return StockAssets()
	default:
		return AllAssets()
	}
}

// TopMovers is the fallback for the top movers feed: the first limit
// entries of crypto then stocks, unsorted.
func TopMovers(limit int) []models.AssetQuote {
	all := AllAssets()
	if limit < 0 {
		limit = 0
	}
	if limit > len(all) {
		limit = len(all)
	}
	return all[:limit]
}

// Leaderboard is the fallback leaderboard for an asset class
func Leaderboard(class models.AssetClass) []models.AssetQuote {
	if class == models.AssetClassStock {
		return StockAssets()
	}
	return CryptoAssets()
}
