// internal/api/handlers/predict_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/service"
)

type PredictHandler struct {
	service *service.PredictionService
}

func NewPredictHandler(service *service.PredictionService) *PredictHandler {
	return &PredictHandler{service: service}
}

// PredictCustom runs the inference pipeline on caller-supplied item features.
func (h *PredictHandler) PredictCustom(c *gin.Context) {
	var req domain.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	record, err := h.service.Predict(c.Request.Context(), req)
	if err != nil {
		var dataErr *domain.DataError
		if errors.As(err, &dataErr) {
			errorResponse(c, http.StatusBadRequest, dataErr.Error())
			return
		}
		log.Error().Err(err).Str("item_id", req.SKU).Msg("prediction failed")
		errorResponse(c, http.StatusInternalServerError, "prediction failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// Status reports the loaded model artifacts.
func (h *PredictHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.service.Status(),
	})
}

// ListAlerts returns persisted records that currently carry an alert.
func (h *PredictHandler) ListAlerts(c *gin.Context) {
	limit := 50
	if raw, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && raw > 0 {
		limit = raw
	}

	records, err := h.service.ListAlerts(c.Request.Context(), limit)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			errorResponse(c, http.StatusServiceUnavailable, cfgErr.Error())
			return
		}
		log.Error().Err(err).Msg("alert listing failed")
		errorResponse(c, http.StatusInternalServerError, "alert listing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}
