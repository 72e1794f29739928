// internal/forecast/arima.go
package forecast

import (
	"fmt"
	"math"
)

// Order identifies an ARIMA configuration as (autoregressive order,
// differencing order, moving-average order).
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Slice returns the order as [p, d, q] for metadata payloads.
func (o Order) Slice() []int {
	return []int{o.P, o.D, o.Q}
}

// Model holds the fitted parameters of one item's ARIMA model plus the series
// state needed to project forward. Fitted once during training, then read-only.
type Model struct {
	ModelOrder Order     `json:"order"`
	Phi        []float64 `json:"phi"`
	Theta      []float64 `json:"theta"`
	AIC        float64   `json:"aic"`
	BIC        float64   `json:"bic"`
	NObs       int       `json:"n_obs"`

	// LastLevels[k] is the final value of the k-times differenced series,
	// used to undo differencing when forecasting.
	LastLevels []float64 `json:"last_levels"`
	// DiffTail carries the last p values of the fully differenced series,
	// most recent last; ResidTail the last q fitted residuals.
	DiffTail  []float64 `json:"diff_tail"`
	ResidTail []float64 `json:"resid_tail"`
}

const (
	optimizerMaxIter = 500
	optimizerTol     = 1e-8
	minResidualVar   = 1e-10
)

// fitARIMA fits one candidate configuration by conditional sum of squares.
// Any numerical failure (too little data, non-convergence, explosive or
// non-invertible parameters, degenerate variance) comes back as an error so
// model selection can move on to the next candidate.
func fitARIMA(series []float64, order Order) (*Model, error) {
	w := series
	for d := 0; d < order.D; d++ {
		w = difference(w)
	}

	n := len(w)
	k := order.P + order.Q + 1 // parameters + residual variance
	if n <= order.P+order.Q+1 {
		return nil, fmt.Errorf("ARIMA%s: %d differenced points is too few", order, n)
	}

	objective := func(params []float64) float64 {
		phi := params[:order.P]
		theta := params[order.P:]
		if penalty := boundaryPenalty(phi, theta); penalty > 0 {
			return penalty
		}
		resid := cssResiduals(w, phi, theta)
		sse := 0.0
		for t := order.P; t < n; t++ {
			sse += resid[t] * resid[t]
		}
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return math.MaxFloat64
		}
		return sse
	}

	x0 := make([]float64, order.P+order.Q)
	for i := range x0 {
		x0[i] = 0.1
	}

	params, sse, converged := nelderMead(objective, x0, optimizerMaxIter, optimizerTol)
	if !converged {
		return nil, fmt.Errorf("ARIMA%s: optimizer did not converge", order)
	}

	phi := append([]float64(nil), params[:order.P]...)
	theta := append([]float64(nil), params[order.P:]...)
	if !stationary(phi) || !stationary(theta) {
		return nil, fmt.Errorf("ARIMA%s: parameters outside the admissible region", order)
	}

	nEff := float64(n - order.P)
	sigma2 := sse / nEff
	if sigma2 < minResidualVar {
		return nil, fmt.Errorf("ARIMA%s: residual variance collapsed", order)
	}

	logLik := -nEff / 2 * (math.Log(2*math.Pi*sigma2) + 1)
	aic := -2*logLik + 2*float64(k)
	bic := -2*logLik + float64(k)*math.Log(nEff)

	resid := cssResiduals(w, phi, theta)

	m := &Model{
		ModelOrder: order,
		Phi:        phi,
		Theta:      theta,
		AIC:        aic,
		BIC:        bic,
		NObs:       len(series),
		LastLevels: lastLevels(series, order.D),
		DiffTail:   tail(w, order.P),
		ResidTail:  tail(resid, order.Q),
	}
	return m, nil
}

// Forecast projects the next steps values of the original series. Negative
// projections clamp to zero; demand cannot be negative.
func (m *Model) Forecast(steps int) []float64 {
	if steps <= 0 {
		return nil
	}

	wHist := append([]float64(nil), m.DiffTail...)
	eHist := append([]float64(nil), m.ResidTail...)

	w := make([]float64, steps)
	for h := 0; h < steps; h++ {
		v := 0.0
		for i, phi := range m.Phi {
			if lag := len(wHist) - 1 - i; lag >= 0 {
				v += phi * wHist[lag]
			}
		}
		for j, theta := range m.Theta {
			if lag := len(eHist) - 1 - j; lag >= 0 {
				v += theta * eHist[lag]
			}
		}
		w[h] = v
		wHist = append(wHist, v)
		eHist = append(eHist, 0) // future shocks have zero expectation
	}

	// Undo differencing, innermost level first.
	for level := m.ModelOrder.D - 1; level >= 0; level-- {
		running := m.LastLevels[level]
		for h := range w {
			running += w[h]
			w[h] = running
		}
	}

	for h := range w {
		if w[h] < 0 {
			w[h] = 0
		}
	}
	return w
}

// cssResiduals computes conditional-sum-of-squares residuals, with
// pre-sample values treated as zero.
func cssResiduals(w, phi, theta []float64) []float64 {
	resid := make([]float64, len(w))
	for t := range w {
		v := w[t]
		for i, p := range phi {
			if lag := t - 1 - i; lag >= 0 {
				v -= p * w[lag]
			}
		}
		for j, q := range theta {
			if lag := t - 1 - j; lag >= 0 {
				v -= q * resid[lag]
			}
		}
		resid[t] = v
	}
	return resid
}

// stationary checks the admissible region for AR (stationarity) or MA
// (invertibility) coefficients. Orders above two fall back to a conservative
// absolute-sum test; the candidate set never goes that high.
func stationary(coef []float64) bool {
	switch len(coef) {
	case 0:
		return true
	case 1:
		return math.Abs(coef[0]) < 1
	case 2:
		a, b := coef[0], coef[1]
		return b+a < 1 && b-a < 1 && math.Abs(b) < 1
	default:
		sum := 0.0
		for _, c := range coef {
			sum += math.Abs(c)
		}
		return sum < 1
	}
}

// boundaryPenalty keeps the optimizer inside the admissible region by pricing
// excursions instead of returning infinities it cannot rank.
func boundaryPenalty(phi, theta []float64) float64 {
	penalty := 0.0
	for _, c := range phi {
		if a := math.Abs(c); a >= 1 {
			penalty += (a - 1 + 0.01) * 1e8
		}
	}
	for _, c := range theta {
		if a := math.Abs(c); a >= 1 {
			penalty += (a - 1 + 0.01) * 1e8
		}
	}
	if !stationary(phi) || !stationary(theta) {
		penalty += 1e8
	}
	return penalty
}

func difference(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

// lastLevels records the final value at each differencing stage of the
// original series, outermost (undifferenced) first.
func lastLevels(series []float64, d int) []float64 {
	levels := make([]float64, 0, d)
	w := series
	for k := 0; k < d; k++ {
		levels = append(levels, w[len(w)-1])
		w = difference(w)
	}
	return levels
}

func tail(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(values) < n {
		n = len(values)
	}
	return append([]float64(nil), values[len(values)-n:]...)
}
