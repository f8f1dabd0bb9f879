package demodata

import (
	"time"

	"github.com/findosh/marketiq/internal/models"
	"github.com/google/uuid"
)

// Stable IDs so demo URLs survive restarts
var (
	GrowthPortfolioID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("marketiq:sub-portfolio:growth"))
	CryptoPortfolioID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("marketiq:sub-portfolio:crypto"))
)

// SubPortfolios returns the default sub-portfolio groupings
func SubPortfolios() []models.SubPortfolio {
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []models.SubPortfolio{
		{
			ID:          GrowthPortfolioID,
			Name:        "Growth",
			Description: "High-conviction technology positions",
			Color:       "blue",
			CreatedAt:   created,
		},
		{
			ID:          CryptoPortfolioID,
			Name:        "Crypto",
			Description: "Digital asset allocation",
			Color:       "purple",
			CreatedAt:   created,
		},
	}
}

// Holdings returns the starter positions, each assigned to a default
// sub-portfolio.
func Holdings() []models.Holding {
	yield := d("0.8")

	nvda := models.NewHolding("NVDA", "NVIDIA Corporation", models.AssetClassStock)
	nvda.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("marketiq:holding:nvda"))
	nvda.SubPortfolioID = GrowthPortfolioID
	nvda.Quantity = d("10")
	nvda.AverageCost = d("720.50")
	nvda.CurrentPrice = d("789.45")
	nvda.RiskScore = 75
	nvda.LastNews = "NVIDIA announces new AI chip breakthrough"
	nvda.NextEarnings = "2024-02-21"
	nvda.DividendYield = &yield

	sol := models.NewHolding("SOL", "Solana", models.AssetClassCrypto)
	sol.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("marketiq:holding:sol"))
	sol.SubPortfolioID = CryptoPortfolioID
	sol.Quantity = d("50")
	sol.AverageCost = d("220.00")
	sol.CurrentPrice = d("245.67")
	sol.RiskScore = 85
	sol.LastNews = "Solana DePIN ecosystem expanding rapidly"

	return []models.Holding{*nvda, *sol}
}
