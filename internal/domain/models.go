// internal/domain/models.go
package domain

import (
	"math"
	"time"
)

// Item holds the static attributes of a stocked product. Reorder level and
// lead time are set at item creation and immutable for the item's lifetime.
type Item struct {
	ItemID       string  `json:"item_id" db:"item_id"`
	ProductName  string  `json:"product_name" db:"product_name"`
	Brand        string  `json:"brand" db:"brand"`
	Category     string  `json:"category" db:"category"`
	Location     string  `json:"location" db:"location"`
	SupplierID   int     `json:"supplier_id" db:"supplier_id"`
	SupplierName string  `json:"supplier_name" db:"supplier_name"`
	ReorderLevel float64 `json:"reorder_level" db:"reorder_level"`
	LeadTime     float64 `json:"lead_time" db:"lead_time"`
}

// Observation is one (item, date) snapshot of stock and sales. Observations
// form an ordered sequence per item; only the latest one feeds live prediction.
type Observation struct {
	Item            Item      `json:"item"`
	Date            time.Time `json:"date"`
	CurrentStock    float64   `json:"current_stock"`
	DailySales      float64   `json:"daily_sales"`
	WeeklySales     float64   `json:"weekly_sales"`
	DaysToEmpty     float64   `json:"days_to_empty"`
	LastRestockDate time.Time `json:"last_restock_date"`

	// Ground-truth labels, present only on training records.
	StockStatus string `json:"stock_status,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// PredictionRequest is the feature input accepted at the service boundary.
type PredictionRequest struct {
	SKU          string  `json:"sku"`
	ProductName  string  `json:"productName"`
	CurrentStock float64 `json:"currentStock"`
	DailySales   float64 `json:"dailySales"`
	WeeklySales  float64 `json:"weeklySales"`
	ReorderLevel float64 `json:"reorderLevel"`
	LeadTime     float64 `json:"leadTime"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Location     string  `json:"location"`
	SupplierName string  `json:"supplierName"`
	ForecastDays int     `json:"forecastDays"`
}

// Validate checks the required numeric fields, returning a DataError on the
// first malformed one.
func (r *PredictionRequest) Validate() error {
	if r.SKU == "" {
		return NewDataError("sku", "must not be empty")
	}
	if r.CurrentStock < 0 {
		return NewDataError("currentStock", "must not be negative")
	}
	if r.DailySales <= 0 {
		return NewDataError("dailySales", "must be greater than 0")
	}
	if r.WeeklySales <= 0 {
		return NewDataError("weeklySales", "must be greater than 0")
	}
	if r.ReorderLevel < 0 {
		return NewDataError("reorderLevel", "must not be negative")
	}
	if r.LeadTime < 0 {
		return NewDataError("leadTime", "must not be negative")
	}
	return nil
}

// DaysToEmpty derives the stock runway, flooring the sales rate at 1 to avoid
// division by zero.
func (r *PredictionRequest) DaysToEmpty() float64 {
	return r.CurrentStock / math.Max(r.DailySales, 1)
}

// Observation projects the request onto a training-shaped record so encoding
// uses the same field order for batch and single-record paths.
func (r *PredictionRequest) Observation() Observation {
	return Observation{
		Item: Item{
			ItemID:       r.SKU,
			ProductName:  r.ProductName,
			Brand:        r.Brand,
			Category:     r.Category,
			Location:     r.Location,
			SupplierName: r.SupplierName,
			ReorderLevel: r.ReorderLevel,
			LeadTime:     r.LeadTime,
		},
		CurrentStock: r.CurrentStock,
		DailySales:   r.DailySales,
		WeeklySales:  r.WeeklySales,
		DaysToEmpty:  r.DaysToEmpty(),
	}
}

// ForecastPoint is one projected day of demand with a confidence estimate.
type ForecastPoint struct {
	Date       string  `json:"date" db:"date"`
	OffsetDay  int     `json:"offset_day" db:"offset_day"`
	Predicted  float64 `json:"predicted" db:"predicted"`
	Confidence float64 `json:"confidence" db:"confidence"`
}

// ForecastRecord is the alert consumer record returned to callers and handed
// to the persistence collaborator. It is recomputed per prediction, never
// mutated afterwards.
type ForecastRecord struct {
	ItemID          string          `json:"itemId" db:"item_id"`
	ProductName     string          `json:"productName" db:"product_name"`
	CurrentStock    float64         `json:"currentStock" db:"current_stock"`
	StockStatusPred string          `json:"stockStatusPred" db:"stock_status_pred"`
	PriorityPred    string          `json:"priorityPred" db:"priority_pred"`
	Alert           string          `json:"alert" db:"alert"`
	ForecastData    []ForecastPoint `json:"forecastData"`
	ForecastMethod  string          `json:"forecastMethod" db:"forecast_method"`
	ArimaUsed       bool            `json:"arimaUsed" db:"arima_used"`
	ModelDetails    *ModelDetails   `json:"modelDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// ModelDetails reports how a forecast was produced so downstream consumers
// can distinguish a model-backed forecast from a fallback estimate.
type ModelDetails struct {
	Order            []int   `json:"order,omitempty"`
	AIC              float64 `json:"aic,omitempty"`
	BIC              float64 `json:"bic,omitempty"`
	HistoricalPoints int     `json:"historical_points"`
	ForecastMean     float64 `json:"forecast_mean"`
}
