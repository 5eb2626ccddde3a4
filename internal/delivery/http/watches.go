package http

import (
	"errors"
	"net/http"
	"strconv"

	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupWatches(base *echo.Group) {
	v1 := base.Group("/v1/watches")
	{
		v1.GET("", h.ListWatches)
		v1.POST("", h.CreateWatch)
	}
	base.GET("/health", h.Health)
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

func (h *HttpAPIHandler) ListWatches(c echo.Context) error {
	ctx := c.Request().Context()

	requesterID, err := strconv.ParseInt(c.QueryParam("requester_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("requester_id must be an integer"))
	}

	items, err := h.service.Registry.List(ctx, requesterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to list watches", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("active watches", items))
}

func (h *HttpAPIHandler) CreateWatch(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateWatchRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	watch, current, err := h.service.Registry.Register(ctx, dto.RegisterWatchParam{
		AssetClass:     model.AssetClass(req.AssetClass),
		Name:           req.Name,
		RequesterID:    req.RequesterID,
		RequesterName:  req.RequesterName,
		ChannelID:      req.ChannelID,
		ThresholdValue: req.ThresholdValue,
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateAlert):
		return c.JSON(http.StatusConflict, dto.NewBaseResponse(http.StatusConflict, "watch already registered", nil))
	case errors.Is(err, service.ErrThresholdTooHigh):
		return c.JSON(http.StatusUnprocessableEntity, dto.NewBaseResponse(http.StatusUnprocessableEntity, "threshold is above the current value", map[string]float64{"current": current}))
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "asset not found", nil))
	case err != nil:
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to register watch", nil))
	}

	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "watch registered", map[string]interface{}{
		"watch":   watch,
		"current": current,
	}))
}

func (h *HttpAPIHandler) SetupDigest(base *echo.Group) {
	base.POST("/v1/digest/run", h.RunDigest)
}

func (h *HttpAPIHandler) RunDigest(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "digest dispatched", nil)
	if err := h.service.Digest.Run(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
