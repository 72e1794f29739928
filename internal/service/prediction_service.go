// internal/service/prediction_service.go
package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangrahak/inventroops/internal/alert"
	"github.com/sangrahak/inventroops/internal/bundle"
	"github.com/sangrahak/inventroops/internal/cache"
	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/repository"
)

const (
	baseConfidence     = 0.95
	confidenceDecay    = 0.004
	minConfidence      = 0.75
	forecastDateLayout = "2006-01-02"
)

// PredictionService runs the full inference pipeline: feature encoding, stock
// classification, demand forecasting and alert synthesis. Persistence and
// caching are best-effort collaborators; their failures never fail a request.
type PredictionService struct {
	bundle      *bundle.Bundle
	forecaster  *forecast.Forecaster
	repo        repository.ForecastRepository
	cache       cache.PredictionCache
	defaultDays int
	maxDays     int
}

func NewPredictionService(b *bundle.Bundle, forecaster *forecast.Forecaster, repo repository.ForecastRepository, cacheImpl cache.PredictionCache, defaultDays, maxDays int) *PredictionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPredictionCache()
	}
	if defaultDays <= 0 {
		defaultDays = 30
	}
	if maxDays < defaultDays {
		maxDays = defaultDays
	}
	return &PredictionService{
		bundle:      b,
		forecaster:  forecaster,
		repo:        repo,
		cache:       cacheImpl,
		defaultDays: defaultDays,
		maxDays:     maxDays,
	}
}

// Predict classifies the item's stock health, forecasts its demand and
// synthesizes the restock alert. Invalid input surfaces as DataError.
func (s *PredictionService) Predict(ctx context.Context, req domain.PredictionRequest) (*domain.ForecastRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ForecastDays = s.clampDays(req.ForecastDays)

	if record, ok, err := s.cache.Get(ctx, req); err == nil && ok {
		return record, nil
	} else if err != nil {
		log.Warn().Err(err).Str("item_id", req.SKU).Msg("prediction cache get failed")
	}

	features, err := s.bundle.Vocabulary.Encode(req.Observation())
	if err != nil {
		return nil, err
	}

	status, priority, err := s.bundle.Classifier.Predict(features)
	if err != nil {
		return nil, err
	}

	fit := s.bundle.Lookup(req.SKU)
	values, meta := s.forecaster.Forecast(fit, req.DailySales, req.WeeklySales, req.ForecastDays)

	record := s.buildRecord(req, status, priority, values, meta)

	if s.repo != nil {
		if err := s.repo.UpsertForecast(ctx, record); err != nil {
			log.Warn().Err(err).Str("item_id", req.SKU).Msg("forecast persist failed")
		}
	}
	if err := s.cache.Set(ctx, req, record); err != nil {
		log.Warn().Err(err).Str("item_id", req.SKU).Msg("prediction cache set failed")
	}

	return record, nil
}

func (s *PredictionService) buildRecord(req domain.PredictionRequest, status, priority string, values []float64, meta forecast.Metadata) *domain.ForecastRecord {
	now := time.Now().UTC()

	points := make([]domain.ForecastPoint, len(values))
	mean := 0.0
	for i, v := range values {
		points[i] = domain.ForecastPoint{
			Date:       now.AddDate(0, 0, i+1).Format(forecastDateLayout),
			OffsetDay:  i + 1,
			Predicted:  v,
			Confidence: pointConfidence(i),
		}
		mean += v
	}
	if len(values) > 0 {
		mean /= float64(len(values))
	}

	details := &domain.ModelDetails{
		Order:            meta.Order,
		AIC:              meta.AIC,
		BIC:              meta.BIC,
		HistoricalPoints: meta.Points,
		ForecastMean:     mean,
	}

	return &domain.ForecastRecord{
		ItemID:          req.SKU,
		ProductName:     req.ProductName,
		CurrentStock:    req.CurrentStock,
		StockStatusPred: status,
		PriorityPred:    priority,
		Alert:           alert.Synthesize(status, priority, req.CurrentStock, values),
		ForecastData:    points,
		ForecastMethod:  meta.Method,
		ArimaUsed:       meta.Method == forecast.MethodARIMA,
		ModelDetails:    details,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ListAlerts reads back the persisted records that currently carry an alert.
func (s *PredictionService) ListAlerts(ctx context.Context, limit int) ([]domain.ForecastRecord, error) {
	if s.repo == nil {
		return nil, domain.NewConfigurationError("database", "alert listing requires a configured database")
	}
	return s.repo.ListAlerts(ctx, limit)
}

// StatusReport summarizes the loaded model artifacts for operational checks.
type StatusReport struct {
	BundleVersion  int       `json:"bundleVersion"`
	TrainedAt      time.Time `json:"trainedAt"`
	FeatureCount   int       `json:"featureCount"`
	ItemModels     int       `json:"itemModels"`
	FittedModels   int       `json:"fittedModels"`
	DefaultDays    int       `json:"defaultForecastDays"`
	MaxDays        int       `json:"maxForecastDays"`
	WritesDB       bool      `json:"persistsForecasts"`
	StockStatuses  []string  `json:"stockStatuses"`
	PriorityLevels []string  `json:"priorityLevels"`
}

func (s *PredictionService) Status() StatusReport {
	return StatusReport{
		BundleVersion:  s.bundle.Version,
		TrainedAt:      s.bundle.CreatedAt,
		FeatureCount:   s.bundle.Classifier.Features,
		ItemModels:     len(s.bundle.Forecasts),
		FittedModels:   s.bundle.FittedModelCount(),
		DefaultDays:    s.defaultDays,
		MaxDays:        s.maxDays,
		WritesDB:       s.repo != nil,
		StockStatuses:  domain.StockStatuses(),
		PriorityLevels: domain.Priorities(),
	}
}

func (s *PredictionService) clampDays(days int) int {
	if days <= 0 {
		return s.defaultDays
	}
	if days > s.maxDays {
		return s.maxDays
	}
	return days
}

func pointConfidence(offset int) float64 {
	return math.Max(minConfidence, baseConfidence-confidenceDecay*float64(offset))
}
