// internal/service/training_service.go
package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangrahak/inventroops/internal/bundle"
	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/ml"
)

// TrainingService turns a labeled observation set into a deployable model
// bundle: one fitted vocabulary, one two-output classifier and one demand
// model per item with enough history.
type TrainingService struct {
	forecaster *forecast.Forecaster
}

func NewTrainingService(forecaster *forecast.Forecaster) *TrainingService {
	return &TrainingService{forecaster: forecaster}
}

// Train runs the full training pass over the observations. Label or feature
// problems surface as DataError; the caller decides whether to abort or fix
// the dataset.
func (s *TrainingService) Train(observations []domain.Observation) (*bundle.Bundle, error) {
	if len(observations) == 0 {
		return nil, domain.NewDataError("observations", "training set must not be empty")
	}

	start := time.Now()
	log.Info().Int("observations", len(observations)).Msg("training started")

	if err := validateLabels(observations); err != nil {
		return nil, err
	}

	vocab := ml.FitVocabulary(collectCategories(observations))

	features := make([][]float64, 0, len(observations))
	statuses := make([]string, 0, len(observations))
	priorities := make([]string, 0, len(observations))
	for i, obs := range observations {
		row, err := vocab.Encode(obs)
		if err != nil {
			return nil, fmt.Errorf("encoding observation %d: %w", i, err)
		}
		features = append(features, row)
		statuses = append(statuses, obs.StockStatus)
		priorities = append(priorities, obs.Priority)
	}

	classifier, err := ml.TrainClassifier(features, statuses, priorities)
	if err != nil {
		return nil, err
	}

	forecasts := s.fitItemModels(observations)

	b := bundle.New(vocab, classifier, forecasts)

	log.Info().
		Int("items", len(forecasts)).
		Int("fitted_models", b.FittedModelCount()).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")

	return b, nil
}

// fitItemModels groups observations per item in date order and fits one
// demand model per item. Items with short histories carry a fallback marker
// instead of a model.
func (s *TrainingService) fitItemModels(observations []domain.Observation) map[string]forecast.FitResult {
	grouped := make(map[string][]domain.Observation)
	for _, obs := range observations {
		grouped[obs.Item.ItemID] = append(grouped[obs.Item.ItemID], obs)
	}

	results := make(map[string]forecast.FitResult, len(grouped))
	for itemID, group := range grouped {
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		history := make([]float64, len(group))
		for i, obs := range group {
			history[i] = obs.DailySales
		}

		res := s.forecaster.Fit(history)
		if !res.Fitted() {
			log.Debug().Str("item_id", itemID).Str("reason", res.FallbackReason).Msg("item uses fallback forecasting")
		}
		results[itemID] = res
	}

	return results
}

func validateLabels(observations []domain.Observation) error {
	for i, obs := range observations {
		if _, ok := domain.ParseStockStatus(obs.StockStatus); !ok {
			return domain.NewDataError("stock_status",
				fmt.Sprintf("observation %d has unrecognized label %q", i, obs.StockStatus))
		}
		if _, ok := domain.ParsePriority(obs.Priority); !ok {
			return domain.NewDataError("priority",
				fmt.Sprintf("observation %d has unrecognized label %q", i, obs.Priority))
		}
	}
	return nil
}

func collectCategories(observations []domain.Observation) map[string][]string {
	categories := make(map[string][]string, len(ml.CategoricalColumns))
	for _, obs := range observations {
		categories["brand"] = append(categories["brand"], obs.Item.Brand)
		categories["category"] = append(categories["category"], obs.Item.Category)
		categories["location"] = append(categories["location"], obs.Item.Location)
		categories["supplier_name"] = append(categories["supplier_name"], obs.Item.SupplierName)
	}
	return categories
}
