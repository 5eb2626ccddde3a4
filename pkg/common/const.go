package common

const (
	KEY_FX_RATE    = "fx_rate:%s_%s"
	KEY_LAST_PRICE = "last_price:%s:%s"
)
