package dto

import "pricewatch/internal/model"

// RegisterWatchParam carries one registration request into the registry.
type RegisterWatchParam struct {
	AssetClass     model.AssetClass
	Name           string
	RequesterID    int64
	RequesterName  string
	ChannelID      int64
	ThresholdValue float64
}

// WatchListItem is one row of a requester's watchlist.
type WatchListItem struct {
	ID              uint    `json:"id"`
	AssetClass      string  `json:"asset_class"`
	Name            string  `json:"name"`
	ThresholdValue  float64 `json:"threshold_value"`
	RemainingCycles int     `json:"remaining_cycles"`
	CreatedAt       string  `json:"created_at"`
	Color           uint32  `json:"color"`
}
