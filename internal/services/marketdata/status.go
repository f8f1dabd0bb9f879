package marketdata

import (
	"time"
)

// marketLocation is the exchange time zone for US equities
var marketLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}()

// IsMarketOpen checks if the US stock market is open at now.
// Crypto markets never close and are not covered here.
func (s *Service) IsMarketOpen(now time.Time) bool {
	now = now.In(marketLocation)

	// Check if weekday
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}

	// Market hours: 9:30 AM - 4:00 PM Eastern
	hour := now.Hour()
	minute := now.Minute()

	if hour < 9 || (hour == 9 && minute < 30) {
		return false
	}
	if hour >= 16 {
		return false
	}

	return true
}

// MarketStatus represents overall market status
type MarketStatus struct {
	IsOpen      bool       `json:"isOpen"`
	NextOpen    *time.Time `json:"nextOpen,omitempty"`
	NextClose   *time.Time `json:"nextClose,omitempty"`
	Message     string     `json:"message"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// MarketStatus returns the stock market status at now
func (s *Service) MarketStatus(now time.Time) MarketStatus {
	now = now.In(marketLocation)
	isOpen := s.IsMarketOpen(now)

	status := MarketStatus{
		IsOpen:      isOpen,
		LastUpdated: now,
	}

	if isOpen {
		nextClose := time.Date(now.Year(), now.Month(), now.Day(), 16, 0, 0, 0, marketLocation)
		status.NextClose = &nextClose
		status.Message = "Market is open"
		return status
	}

	nextOpen := now
	if now.Hour() >= 16 {
		nextOpen = nextOpen.AddDate(0, 0, 1)
	}

	// Skip to next weekday
	for nextOpen.Weekday() == time.Saturday || nextOpen.Weekday() == time.Sunday {
		nextOpen = nextOpen.AddDate(0, 0, 1)
	}

	open := time.Date(nextOpen.Year(), nextOpen.Month(), nextOpen.Day(), 9, 30, 0, 0, marketLocation)
	status.NextOpen = &open
	status.Message = "Market is closed"

	return status
}
