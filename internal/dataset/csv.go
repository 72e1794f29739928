// internal/dataset/csv.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sangrahak/inventroops/internal/domain"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"item_id", "product_name", "brand", "category", "location",
	"supplier_id", "supplier_name", "current_stock", "daily_sales",
	"weekly_sales", "reorder_level", "stock_status", "priority",
	"date", "last_restock_date", "lead_time", "days_to_empty",
}

// WriteCSV writes observations in the training dataset layout.
func WriteCSV(path string, observations []domain.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, obs := range observations {
		record := []string{
			obs.Item.ItemID,
			obs.Item.ProductName,
			obs.Item.Brand,
			obs.Item.Category,
			obs.Item.Location,
			strconv.Itoa(obs.Item.SupplierID),
			obs.Item.SupplierName,
			formatFloat(obs.CurrentStock),
			formatFloat(obs.DailySales),
			formatFloat(obs.WeeklySales),
			formatFloat(obs.Item.ReorderLevel),
			obs.StockStatus,
			obs.Priority,
			obs.Date.Format(dateLayout),
			obs.LastRestockDate.Format(dateLayout),
			formatFloat(obs.Item.LeadTime),
			formatFloat(obs.DaysToEmpty),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// ReadCSV loads a training dataset. Malformed or missing required numeric
// fields surface as DataError; they are not skipped silently.
func ReadCSV(path string) ([]domain.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	return readObservations(f)
}

func readObservations(r io.Reader) ([]domain.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range csvHeader {
		if required == "supplier_id" || required == "last_restock_date" {
			continue // optional in older exports
		}
		if _, ok := col[required]; !ok {
			return nil, domain.NewDataError(required, "column missing from dataset")
		}
	}

	var observations []domain.Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}
		line++

		get := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		obs, err := parseObservation(get, line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

func parseObservation(get func(string) string, line int) (domain.Observation, error) {
	var obs domain.Observation

	numeric := func(name string) (float64, error) {
		raw := get(name)
		if raw == "" {
			return 0, domain.NewDataError(name, fmt.Sprintf("missing on line %d", line))
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return 0, domain.NewDataError(name, fmt.Sprintf("not numeric on line %d: %q", line, raw))
		}
		return v, nil
	}

	currentStock, err := numeric("current_stock")
	if err != nil {
		return obs, err
	}
	dailySales, err := numeric("daily_sales")
	if err != nil {
		return obs, err
	}
	weeklySales, err := numeric("weekly_sales")
	if err != nil {
		return obs, err
	}
	reorderLevel, err := numeric("reorder_level")
	if err != nil {
		return obs, err
	}
	leadTime, err := numeric("lead_time")
	if err != nil {
		return obs, err
	}
	daysToEmpty, err := numeric("days_to_empty")
	if err != nil {
		return obs, err
	}

	date, err := time.Parse(dateLayout, get("date"))
	if err != nil {
		return obs, domain.NewDataError("date", fmt.Sprintf("unparseable on line %d: %q", line, get("date")))
	}

	supplierID, _ := strconv.Atoi(get("supplier_id"))
	lastRestock, _ := time.Parse(dateLayout, get("last_restock_date"))

	obs = domain.Observation{
		Item: domain.Item{
			ItemID:       get("item_id"),
			ProductName:  get("product_name"),
			Brand:        get("brand"),
			Category:     get("category"),
			Location:     get("location"),
			SupplierID:   supplierID,
			SupplierName: get("supplier_name"),
			ReorderLevel: reorderLevel,
			LeadTime:     leadTime,
		},
		Date:            date,
		CurrentStock:    currentStock,
		DailySales:      dailySales,
		WeeklySales:     weeklySales,
		DaysToEmpty:     daysToEmpty,
		LastRestockDate: lastRestock,
		StockStatus:     get("stock_status"),
		Priority:        get("priority"),
	}
	return obs, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
