package dto

// OpenSeaCollectionResponse is the collection endpoint payload, trimmed to the
// fields the watcher needs.
type OpenSeaCollectionResponse struct {
	Collection struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		ImageURL    string `json:"image_url"`
		ExternalURL string `json:"external_url"`
		Stats       struct {
			FloorPrice  float64 `json:"floor_price"`
			MarketCap   float64 `json:"market_cap"`
			NumOwners   int     `json:"num_owners"`
			TotalSupply float64 `json:"total_supply"`
		} `json:"stats"`
	} `json:"collection"`
}

// NFTCollectionStats is the provider-neutral result of one collection lookup.
// Floor price and market cap are in the chain's native unit.
type NFTCollectionStats struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	FloorPrice  float64 `json:"floor_price"`
	MarketCap   float64 `json:"market_cap"`
	NumOwners   int     `json:"num_owners"`
	TotalSupply float64 `json:"total_supply"`
	ImageURL    string  `json:"image_url"`
	ExternalURL string  `json:"external_url"`
}

// NFTSnapshot is a resolved collection, optionally enriched with fiat values
// derived from the native asset's current USD price.
type NFTSnapshot struct {
	NFTCollectionStats
	NativeAsset  string   `json:"native_asset"`
	FloorUSD     *float64 `json:"floor_usd,omitempty"`
	MarketCapUSD *float64 `json:"market_cap_usd,omitempty"`
}
