// internal/repository/forecast_repository.go
package repository

import (
	"context"

	"github.com/sangrahak/inventroops/internal/domain"
)

// ForecastRepository persists the alert consumer records produced by the
// prediction service. Persistence is an external collaborator concern; the
// prediction path treats failures here as warnings, never as request errors.
type ForecastRepository interface {
	UpsertForecast(ctx context.Context, record *domain.ForecastRecord) error
	GetForecast(ctx context.Context, itemID string) (*domain.ForecastRecord, error)
	ListAlerts(ctx context.Context, limit int) ([]domain.ForecastRecord, error)
}
