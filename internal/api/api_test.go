// internal/api/api_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangrahak/inventroops/internal/dataset"
	"github.com/sangrahak/inventroops/internal/domain"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/service"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	observations := dataset.Generate(dataset.GeneratorConfig{
		Items:     3,
		Days:      15,
		Seed:      7,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	trainer := service.NewTrainingService(forecast.NewForecaster(42))
	b, err := trainer.Train(observations)
	if err != nil {
		t.Fatal(err)
	}

	svc := service.NewPredictionService(b, forecast.NewForecaster(42), nil, nil, 30, 180)
	return NewRouter(&Services{PredictionService: svc}, nil)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ml/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Success bool                 `json:"success"`
		Data    service.StatusReport `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("expected success response")
	}
	if body.Data.ItemModels != 3 {
		t.Errorf("ItemModels = %d, want 3", body.Data.ItemModels)
	}
}

func TestPredictCustomEndpoint(t *testing.T) {
	router := testRouter(t)

	payload := domain.PredictionRequest{
		SKU:          "1",
		ProductName:  "Crimson Prime",
		CurrentStock: 40,
		DailySales:   8,
		WeeklySales:  56,
		ReorderLevel: 60,
		LeadTime:     5,
		Brand:        "Samsung",
		Category:     "Electronics",
		Location:     "Mumbai",
		SupplierName: "Aarav Sharma",
		ForecastDays: 7,
	}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ml/predict/custom", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success bool                  `json:"success"`
		Data    domain.ForecastRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ItemID != "1" {
		t.Errorf("ItemID = %q, want %q", resp.Data.ItemID, "1")
	}
	if len(resp.Data.ForecastData) != 7 {
		t.Errorf("forecast has %d points, want 7", len(resp.Data.ForecastData))
	}
	if resp.Data.Alert == "" {
		t.Error("alert must never be empty")
	}
}

func TestPredictCustomRejectsBadInput(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"missing sku", `{"currentStock": 10, "dailySales": 2, "weeklySales": 14}`},
		{"negative stock", `{"sku": "X", "currentStock": -5, "dailySales": 2, "weeklySales": 14}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/ml/predict/custom", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestAlertsEndpointWithoutDatabase(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ml/alerts", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	if allowAll {
		t.Error("no wildcard present, allowAll should be false")
	}
	if len(origins) != 2 {
		t.Fatalf("parsed %d origins, want 2", len(origins))
	}

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	if !allowAll {
		t.Error("wildcard should enable allowAll")
	}
}
