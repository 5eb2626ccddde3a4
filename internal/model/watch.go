package model

import (
	"time"

	"gorm.io/datatypes"
)

// AssetClass discriminates the two watch tables.
type AssetClass string

const (
	AssetClassCrypto AssetClass = "CRYPTO"
	AssetClassNFT    AssetClass = "NFT"
)

// Table returns the table name backing this asset class.
func (c AssetClass) Table() string {
	if c == AssetClassNFT {
		return "nft_watches"
	}
	return "crypto_watches"
}

// Watch is one registered price threshold. Crypto thresholds are USD, NFT
// thresholds are in the chain's native unit. A watch is never deleted: it is
// deactivated on trigger, expiry or user clear and kept for audit.
type Watch struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	RequesterID     int64          `gorm:"not null" json:"requester_id"`
	RequesterName   string         `json:"requester_name"`
	ChannelID       int64          `gorm:"not null" json:"channel_id"`
	ThresholdValue  float64        `gorm:"not null" json:"threshold_value"`
	TriggeredCount  int            `gorm:"not null;default:0" json:"triggered_count"`
	RemainingCycles int            `gorm:"not null" json:"remaining_cycles"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	LastSnapshot    datatypes.JSON `json:"last_snapshot,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
