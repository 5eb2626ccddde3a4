package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

// CreateWatchRequest is the HTTP registration payload.
type CreateWatchRequest struct {
	AssetClass     string  `json:"asset_class" validate:"required,oneof=CRYPTO NFT"`
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	RequesterID    int64   `json:"requester_id" validate:"required"`
	RequesterName  string  `json:"requester_name" validate:"max=100"`
	ChannelID      int64   `json:"channel_id" validate:"required"`
	ThresholdValue float64 `json:"threshold_value" validate:"required,gt=0"`
}
