// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sangrahak/inventroops/internal/domain"
)

type ForecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// UpsertForecast inserts the record or replaces the existing row for the same
// item, keyed by item_id.
func (r *ForecastRepository) UpsertForecast(ctx context.Context, record *domain.ForecastRecord) error {
	forecastJSON, err := json.Marshal(record.ForecastData)
	if err != nil {
		return fmt.Errorf("could not marshal forecast data: %w", err)
	}

	var detailsJSON []byte
	if record.ModelDetails != nil {
		detailsJSON, err = json.Marshal(record.ModelDetails)
		if err != nil {
			return fmt.Errorf("could not marshal model details: %w", err)
		}
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO forecasts (
				item_id, product_name, current_stock, stock_status_pred,
				priority_pred, alert, forecast_data, forecast_method,
				arima_used, model_details, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			ON CONFLICT (item_id) DO UPDATE SET
				product_name = EXCLUDED.product_name,
				current_stock = EXCLUDED.current_stock,
				stock_status_pred = EXCLUDED.stock_status_pred,
				priority_pred = EXCLUDED.priority_pred,
				alert = EXCLUDED.alert,
				forecast_data = EXCLUDED.forecast_data,
				forecast_method = EXCLUDED.forecast_method,
				arima_used = EXCLUDED.arima_used,
				model_details = EXCLUDED.model_details,
				updated_at = NOW()`

		_, err := tx.ExecContext(ctx, query,
			record.ItemID,
			record.ProductName,
			record.CurrentStock,
			record.StockStatusPred,
			record.PriorityPred,
			record.Alert,
			forecastJSON,
			record.ForecastMethod,
			record.ArimaUsed,
			detailsJSON,
		)
		if err != nil {
			return fmt.Errorf("could not upsert forecast for %s: %w", record.ItemID, err)
		}
		return nil
	})
}

// GetForecast returns the stored record for one item, or sql.ErrNoRows when
// the item has never been predicted.
func (r *ForecastRepository) GetForecast(ctx context.Context, itemID string) (*domain.ForecastRecord, error) {
	query := `
		SELECT item_id, product_name, current_stock, stock_status_pred,
			priority_pred, alert, forecast_data, forecast_method,
			arima_used, model_details, created_at, updated_at
		FROM forecasts
		WHERE item_id = $1`

	row := r.db.QueryRowxContext(ctx, query, itemID)
	record, err := scanForecast(row)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListAlerts returns the most recently updated records whose alert text is
// not the all-clear message, newest first.
func (r *ForecastRepository) ListAlerts(ctx context.Context, limit int) ([]domain.ForecastRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT item_id, product_name, current_stock, stock_status_pred,
			priority_pred, alert, forecast_data, forecast_method,
			arima_used, model_details, created_at, updated_at
		FROM forecasts
		WHERE alert <> 'Stock OK'
		ORDER BY updated_at DESC
		LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list alerts: %w", err)
	}
	defer rows.Close()

	var records []domain.ForecastRecord
	for rows.Next() {
		record, err := scanForecast(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForecast(row rowScanner) (*domain.ForecastRecord, error) {
	var record domain.ForecastRecord
	var forecastJSON []byte
	var detailsJSON []byte

	err := row.Scan(
		&record.ItemID,
		&record.ProductName,
		&record.CurrentStock,
		&record.StockStatusPred,
		&record.PriorityPred,
		&record.Alert,
		&forecastJSON,
		&record.ForecastMethod,
		&record.ArimaUsed,
		&detailsJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("could not scan forecast row: %w", err)
	}

	if len(forecastJSON) > 0 {
		if err := json.Unmarshal(forecastJSON, &record.ForecastData); err != nil {
			return nil, fmt.Errorf("could not unmarshal forecast data: %w", err)
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &record.ModelDetails); err != nil {
			return nil, fmt.Errorf("could not unmarshal model details: %w", err)
		}
	}
	return &record, nil
}
