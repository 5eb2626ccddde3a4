package service

import "errors"

var (
	// ErrDeliveryFailed means the alert message could not be delivered. The
	// watch stays active and is retried on the next applicable pass.
	ErrDeliveryFailed = errors.New("alert delivery failed")

	// ErrThresholdTooHigh rejects a registration whose threshold is above the
	// asset's current value. A watch only makes sense as a drop-to alert.
	ErrThresholdTooHigh = errors.New("threshold above current value")
)
