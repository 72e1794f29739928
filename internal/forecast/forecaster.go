// internal/forecast/forecaster.go
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"
)

// Forecast methods reported in metadata.
const (
	MethodARIMA    = "ARIMA"
	MethodFallback = "Fallback"
)

// minHistoryPoints is the smallest series an ARIMA candidate will fit on.
const minHistoryPoints = 10

// Fallback shape constants: weekday/weekend seasonality, mild trend and
// bounded noise for the synthetic history and the projection.
const (
	fallbackHistoryPeriods  = 60
	historyWeekdayFactor    = 1.15
	historyWeekendFactor    = 0.75
	historyTrendGain        = 0.10
	historyNoiseSpread      = 0.20
	projectionWeekdayFactor = 1.10
	projectionWeekendFactor = 0.85
	projectionTrendGain     = 0.05
	projectionNoiseSpread   = 0.10
	arimaNoiseSpread        = 0.05
	smoothingAlpha          = 0.3
	dailyRateWeight         = 0.4
	weeklyRateWeight        = 0.6
)

// candidateOrders is evaluated front to back; the first candidate with the
// lowest AIC wins, and an equal AIC never displaces an earlier incumbent.
var candidateOrders = []Order{
	{P: 1, D: 1, Q: 1},
	{P: 2, D: 1, Q: 1},
	{P: 1, D: 1, Q: 2},
	{P: 2, D: 1, Q: 2},
	{P: 0, D: 1, Q: 1},
}

// Metadata describes how a forecast was produced.
type Metadata struct {
	Method string  `json:"method"`
	Order  []int   `json:"order,omitempty"`
	AIC    float64 `json:"aic,omitempty"`
	BIC    float64 `json:"bic,omitempty"`
	Points int     `json:"points"`
}

// FitResult is the explicit outcome of fitting one item's history: either a
// fitted model or a fallback marker with the reason. Callers branch on it
// instead of relying on side-channel logs.
type FitResult struct {
	Model          *Model `json:"model,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Fitted reports whether a usable ARIMA model came out of fitting.
func (r FitResult) Fitted() bool {
	return r.Model != nil
}

// Forecaster fits per-item demand models and projects future demand. Fitting
// happens during training; once fitted, Forecast is safe for concurrent use.
type Forecaster struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewForecaster builds a forecaster whose bounded forecast noise is driven by
// the given seed, so identical inputs yield reproducible runs.
func NewForecaster(seed int64) *Forecaster {
	return &Forecaster{rng: rand.New(rand.NewSource(seed))}
}

// Fit evaluates every candidate configuration on the item's history and keeps
// the one with the lowest AIC. It never returns an error: too little history
// or across-the-board non-convergence produces a fallback result instead.
func (f *Forecaster) Fit(history []float64) FitResult {
	if len(history) < minHistoryPoints {
		return FitResult{FallbackReason: fmt.Sprintf("history has %d points, need %d", len(history), minHistoryPoints)}
	}

	var best *Model
	for _, order := range candidateOrders {
		m, err := fitARIMA(history, order)
		if err != nil {
			log.Debug().Str("order", order.String()).Err(err).Msg("candidate fit failed")
			continue
		}
		// Strict comparison: an equal AIC keeps the earlier candidate.
		if best == nil || m.AIC < best.AIC {
			best = m
		}
	}

	if best == nil {
		return FitResult{FallbackReason: "no candidate configuration converged"}
	}

	log.Debug().
		Str("order", best.ModelOrder.String()).
		Float64("aic", best.AIC).
		Float64("bic", best.BIC).
		Msg("selected forecast model")

	return FitResult{Model: best}
}

// Forecast projects steps future periods of demand. A fitted model forecasts
// through its ARIMA parameters with bounded multiplicative variation; a
// fallback result projects from a synthetic history derived from the item's
// mean daily and weekly rates. Every returned value is non-negative.
func (f *Forecaster) Forecast(res FitResult, dailyRate, weeklyRate float64, steps int) ([]float64, Metadata) {
	if steps <= 0 {
		steps = 1
	}

	if res.Fitted() {
		values := res.Model.Forecast(steps)
		for i := range values {
			values[i] *= f.noise(arimaNoiseSpread)
			if values[i] < 0 {
				values[i] = 0
			}
		}
		return values, Metadata{
			Method: MethodARIMA,
			Order:  res.Model.ModelOrder.Slice(),
			AIC:    res.Model.AIC,
			BIC:    res.Model.BIC,
			Points: res.Model.NObs,
		}
	}

	values := f.fallbackForecast(dailyRate, weeklyRate, steps)
	return values, Metadata{
		Method: MethodFallback,
		Points: fallbackHistoryPeriods,
	}
}

// SynthesizeHistory builds a plausible daily demand series from mean daily
// and weekly rates: weekday/weekend seasonality, a mild upward trend and
// bounded noise around the blended base rate.
func (f *Forecaster) SynthesizeHistory(dailyRate, weeklyRate float64, periods int) []float64 {
	base := dailyRateWeight*dailyRate + weeklyRateWeight*(weeklyRate/7)

	series := make([]float64, periods)
	for i := 0; i < periods; i++ {
		seasonality := historyWeekdayFactor
		if i%7 >= 5 {
			seasonality = historyWeekendFactor
		}
		trend := 1 + float64(i)/float64(periods)*historyTrendGain
		v := base * seasonality * trend * f.noise(historyNoiseSpread)
		series[i] = math.Max(0, v)
	}
	return series
}

// fallbackForecast smooths a synthetic history into a level, then projects it
// forward with trend, weekly seasonality and bounded noise.
func (f *Forecaster) fallbackForecast(dailyRate, weeklyRate float64, steps int) []float64 {
	history := f.SynthesizeHistory(dailyRate, weeklyRate, fallbackHistoryPeriods)

	level := 0.0
	for i, v := range history {
		if i == 0 {
			level = v
			continue
		}
		level = smoothingAlpha*v + (1-smoothingAlpha)*level
	}

	values := make([]float64, steps)
	for i := 0; i < steps; i++ {
		seasonality := projectionWeekdayFactor
		if i%7 >= 5 {
			seasonality = projectionWeekendFactor
		}
		trend := 1 + float64(i)/float64(steps)*projectionTrendGain
		v := level * trend * seasonality * f.noise(projectionNoiseSpread)
		values[i] = math.Max(0, v)
	}
	return values
}

// noise draws a multiplicative factor in [1-spread, 1+spread]. The lock keeps
// concurrent forecasts from racing on the shared source.
func (f *Forecaster) noise(spread float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return 1 - spread + 2*spread*f.rng.Float64()
}
