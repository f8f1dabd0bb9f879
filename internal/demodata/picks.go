package demodata

import (
	"github.com/findosh/marketiq/internal/models"
)

func pick(rank int, symbol, name string, iq int, rating models.Rating, price, change, changePct string, confidence int, marketCap, sector, signal string, moved models.RatingChange) models.StockPick {
	return models.StockPick{
		Symbol:          symbol,
		Name:            name,
		IQScore:         iq,
		StockRank:       rank,
		TechnicalRating: rating,
		Price:           d(price),
		Change:          d(change),
		ChangePercent:   d(changePct),
		Confidence:      confidence,
		MarketCap:       marketCap,
		Sector:          sector,
		Signal:          signal,
		RatingChange:    moved,
	}
}

// StockPicks returns the ranked picks per universe, keyed by universe slug
func StockPicks() map[string][]models.StockPick {
	const (
		sb   = models.RatingStrongBuy
		buy  = models.RatingBuy
		hold = models.RatingHold
		up   = models.RatingUpgraded
		down = models.RatingDowngraded
		nw   = models.RatingNew
	)
	return map[string][]models.StockPick{
		"large-cap": {
			pick(1, "NVDA", "NVIDIA Corporation", 98, sb, "789.45", "15.32", "1.98", 95, "1.9T", "Technology", "AI momentum accelerating", up),
			pick(2, "MSFT", "Microsoft Corporation", 94, sb, "418.25", "8.45", "2.06", 92, "3.1T", "Technology", "Cloud dominance expanding", ""),
			pick(3, "GOOGL", "Alphabet Inc", 91, buy, "145.67", "2.15", "1.50", 88, "1.8T", "Technology", "Search moat strengthening", ""),
			pick(4, "AMZN", "Amazon.com Inc", 89, buy, "156.23", "-1.45", "-0.92", 85, "1.6T", "Consumer Discretionary", "AWS growth trajectory intact", ""),
			pick(5, "AAPL", "Apple Inc", 87, hold, "189.45", "0.67", "0.35", 82, "2.9T", "Technology", "Services revenue stabilizing", down),
		},
		"mid-cap": {
			pick(1, "PLTR", "Palantir Technologies", 95, sb, "28.45", "2.15", "8.18", 93, "62B", "Technology", "Government contracts accelerating", nw),
			pick(2, "SMCI", "Super Micro Computer", 92, sb, "845.67", "45.23", "5.65", 89, "48B", "Technology", "AI infrastructure demand surge", ""),
			pick(3, "ARM", "Arm Holdings", 88, buy, "125.34", "3.78", "3.11", 86, "128B", "Technology", "Mobile chip royalties growing", ""),
		},
		"small-cap": {
			pick(1, "SOUN", "SoundHound AI", 89, sb, "8.45", "0.75", "9.74", 78, "2.8B", "Technology", "Voice AI breakthrough", up),
			pick(2, "BBAI", "BigBear.ai Holdings", 85, buy, "3.67", "0.23", "6.69", 75, "450M", "Technology", "Defense AI contracts expanding", ""),
			pick(3, "IREN", "Iris Energy", 82, buy, "12.89", "1.45", "12.67", 72, "1.2B", "Energy", "Bitcoin mining efficiency gains", ""),
		},
		"penny": {
			pick(1, "HOLO", "MicroCloud Hologram", 76, buy, "0.95", "0.12", "14.46", 65, "45M", "Technology", "Hologram patents valuable", nw),
			pick(2, "AIHS", "Senmiao Technology", 73, buy, "1.23", "0.08", "6.96", 62, "78M", "Technology", "Fintech expansion in Asia", ""),
		},
		"sp500": {
			pick(1, "TSM", "Taiwan Semiconductor", 93, sb, "108.45", "3.21", "3.05", 91, "562B", "Technology", "Chip demand acceleration", ""),
			pick(2, "AVGO", "Broadcom Inc", 90, buy, "1245.67", "28.45", "2.34", 87, "565B", "Technology", "AI chip ecosystem dominance", ""),
			pick(3, "ORCL", "Oracle Corporation", 86, buy, "112.34", "1.89", "1.71", 84, "315B", "Technology", "Cloud database migration", ""),
		},
		"russell": {
			pick(1, "NVDA", "NVIDIA Corporation", 98, sb, "789.45", "15.32", "1.98", 95, "1.9T", "Technology", "AI dominance unmatched", ""),
			pick(2, "MSFT", "Microsoft Corporation", 94, sb, "418.25", "8.45", "2.06", 92, "3.1T", "Technology", "Azure AI services leading", ""),
			pick(3, "TSLA", "Tesla Inc", 91, buy, "245.67", "8.92", "3.77", 89, "780B", "Automotive", "FSD breakthrough imminent", ""),
		},
	}
}

// AnalystConsensus returns the consensus leaderboard, best accuracy first
func AnalystConsensus() []models.Analyst {
	return []models.Analyst{
		{Rank: 1, Name: "Neural Alpha", Accuracy: d("89.2"), Picks: 247, Wins: 220, Streak: 8},
		{Rank: 2, Name: "Quantum Quant", Accuracy: d("87.8"), Picks: 312, Wins: 274, Streak: 6},
		{Rank: 3, Name: "DeepValue AI", Accuracy: d("85.9"), Picks: 189, Wins: 162, Streak: 12},
		{Rank: 4, Name: "TensorTrade", Accuracy: d("84.7"), Picks: 203, Wins: 172, Streak: 4},
		{Rank: 5, Name: "Cognitive Capital", Accuracy: d("83.1"), Picks: 278, Wins: 231, Streak: 7},
	}
}
