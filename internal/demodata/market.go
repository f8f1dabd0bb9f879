package demodata

import (
	"github.com/findosh/marketiq/internal/models"
)

// MarketOverview returns the fallback market overview
func MarketOverview() models.MarketOverview {
	return models.MarketOverview{
		TotalMarketCap: d("2450000000000"),
		TotalVolume:    d("98700000000"),
		FearGreedIndex: 72,
		Dominance: models.Dominance{
			BTC:    d("52.3"),
			ETH:    d("17.8"),
			Others: d("29.9"),
		},
		ActiveNarratives: []models.ActiveNarrative{
			{Name: "AI & Machine Learning", Strength: 92, Assets: 5},
			{Name: "DePIN Infrastructure", Strength: 85, Assets: 5},
			{Name: "Biotech Innovation", Strength: 82, Assets: 5},
		},
	}
}

// Narratives returns the tracked market narratives
func Narratives() []models.Narrative {
	return []models.Narrative{
		{
			Name:        "AI & Machine Learning",
			Strength:    92,
			Assets:      []string{"NVDA", "MSFT", "GOOGL", "AMZN", "META"},
			Category:    "Technology",
			Description: "Artificial intelligence and machine learning infrastructure driving the next wave of innovation",
			Trend:       "up",
			Momentum:    85,
			MarketCap:   d("2500000000000"),
		},
		{
			Name:        "DePIN Infrastructure",
			Strength:    85,
			Assets:      []string{"SOL", "RNDR", "FIL", "HNT", "IOTX"},
			Category:    "Crypto",
			Description: "Decentralized Physical Infrastructure Networks revolutionizing real-world connectivity",
			Trend:       "up",
			Momentum:    78,
			MarketCap:   d("450000000000"),
		},
		{
			Name:        "Clean Energy Transition",
			Strength:    78,
			Assets:      []string{"TSLA", "ENPH", "NEE", "FSLR", "PLUG"},
			Category:    "Energy",
			Description: "Global shift towards renewable energy sources and sustainable infrastructure",
			Trend:       "stable",
			Momentum:    72,
			MarketCap:   d("890000000000"),
		},
		{
			Name:        "Gaming & Metaverse",
			Strength:    71,
			Assets:      []string{"RBLX", "U", "MANA", "SAND", "AXS"},
			Category:    "Entertainment",
			Description: "Virtual worlds and blockchain gaming creating new digital economies",
			Trend:       "down",
			Momentum:    65,
			MarketCap:   d("120000000000"),
		},
		{
			Name:        "Biotech Innovation",
			Strength:    82,
			Assets:      []string{"MRNA", "BNTX", "GILD", "ILMN", "REGN"},
			Category:    "Healthcare",
			Description: "Revolutionary biotechnology advancing personalized medicine and gene therapy",
			Trend:       "up",
			Momentum:    80,
			MarketCap:   d("650000000000"),
		},
		{
			Name:        "Quantum Computing",
			Strength:    68,
			Assets:      []string{"IBM", "GOOGL", "IONQ", "RGTI", "QUBT"},
			Category:    "Technology",
			Description: "Next-generation computing power solving previously impossible problems",
			Trend:       "stable",
			Momentum:    69,
			MarketCap:   d("180000000000"),
		},
	}
}

// Contributions returns the attribution dataset shown in reports
func Contributions() []models.ContributionEntry {
	return []models.ContributionEntry{
		{Asset: "AAPL", Category: "Technology", Weight: d("12.5"), Performance: d("23.1"), Contribution: d("15.2")},
		{Asset: "MSFT", Category: "Technology", Weight: d("10.2"), Performance: d("18.7"), Contribution: d("12.8")},
		{Asset: "NVDA", Category: "Technology", Weight: d("8.7"), Performance: d("52.3"), Contribution: d("18.5")},
		{Asset: "GOOGL", Category: "Technology", Weight: d("7.8"), Performance: d("12.9"), Contribution: d("9.3")},
		{Asset: "AMZN", Category: "Consumer", Weight: d("6.9"), Performance: d("8.2"), Contribution: d("7.1")},
		{Asset: "JPM", Category: "Financial", Weight: d("5.2"), Performance: d("-4.1"), Contribution: d("-2.1")},
	}
}

// MonthlyPerformance returns portfolio value against the benchmark by month
func MonthlyPerformance() []models.PerformancePoint {
	return []models.PerformancePoint{
		{Date: "2024-01", Portfolio: d("100000"), Benchmark: d("100000")},
		{Date: "2024-02", Portfolio: d("105000"), Benchmark: d("102000")},
		{Date: "2024-03", Portfolio: d("98000"), Benchmark: d("99000")},
		{Date: "2024-04", Portfolio: d("112000"), Benchmark: d("105000")},
		{Date: "2024-05", Portfolio: d("118000"), Benchmark: d("108000")},
		{Date: "2024-06", Portfolio: d("125000"), Benchmark: d("112000")},
	}
}
