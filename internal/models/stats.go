package models

import "time"

// DashboardStats is the operator dashboard headline block.
type DashboardStats struct {
	TotalTokens     int64 `json:"totalTokens"`
	UsedTokens      int64 `json:"usedTokens"`
	ExpiredTokens   int64 `json:"expiredTokens"`
	AvailableTokens int64 `json:"availableTokens"`
	TotalSpins      int64 `json:"totalSpins"`
}

// WheelStats is the public wheel statistics payload.
type WheelStats struct {
	TotalSpins        int64     `json:"totalSpins"`
	TotalPrizes       int64     `json:"totalPrizes"`
	TotalActiveTokens int64     `json:"totalActiveTokens"`
	Timestamp         time.Time `json:"timestamp"`
}
