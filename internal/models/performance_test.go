package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodDuration(t *testing.T) {
	tests := []struct {
		period   string
		expected time.Duration
	}{
		{Period1Day, 24 * time.Hour},
		{Period1Week, 7 * 24 * time.Hour},
		{Period1Month, 30 * 24 * time.Hour},
		{Period3Month, 90 * 24 * time.Hour},
		{Period6Month, 180 * 24 * time.Hour},
		{Period1Year, 365 * 24 * time.Hour},
		{Period3Year, 3 * 365 * 24 * time.Hour},
		{Period5Year, 5 * 365 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{"unknown", 365 * 24 * time.Hour}, // Default to 1 year
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.expected, PeriodDuration(tt.period))
		})
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period   string
		expected time.Time
	}{
		{Period1Day, time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)},
		{Period1Week, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)},
		{Period1Month, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)},
		{Period1Year, time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)},
		{PeriodYTD, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"bogus", time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.expected, PeriodStart(tt.period, now))
		})
	}
}

func TestNormalizePeriod(t *testing.T) {
	p, ok := NormalizePeriod(" ytd ")
	assert.True(t, ok)
	assert.Equal(t, PeriodYTD, p)

	_, ok = NormalizePeriod("2Q")
	assert.False(t, ok)
}
