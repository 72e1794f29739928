// internal/forecast/optimize.go
package forecast

import (
	"math"
	"sort"
)

// nelderMead minimizes f starting from x0 using the downhill simplex method.
// It returns the best point, its objective value, and whether the simplex
// contracted below tol within maxIter iterations.
func nelderMead(f func([]float64) float64, x0 []float64, maxIter int, tol float64) ([]float64, float64, bool) {
	dim := len(x0)
	if dim == 0 {
		return nil, f(nil), true
	}

	const (
		alpha = 1.0 // reflection
		gamma = 2.0 // expansion
		rho   = 0.5 // contraction
		sigma = 0.5 // shrink
		step  = 0.25
	)

	type vertex struct {
		x []float64
		v float64
	}

	simplex := make([]vertex, dim+1)
	simplex[0] = vertex{x: append([]float64(nil), x0...), v: f(x0)}
	for i := 0; i < dim; i++ {
		x := append([]float64(nil), x0...)
		x[i] += step
		simplex[i+1] = vertex{x: x, v: f(x)}
	}

	centroid := make([]float64, dim)
	trial := make([]float64, dim)

	for iter := 0; iter < maxIter; iter++ {
		sort.Slice(simplex, func(i, j int) bool { return simplex[i].v < simplex[j].v })

		if math.Abs(simplex[dim].v-simplex[0].v) < tol*(math.Abs(simplex[0].v)+tol) {
			return simplex[0].x, simplex[0].v, true
		}

		for i := range centroid {
			centroid[i] = 0
		}
		for _, vx := range simplex[:dim] {
			for i, c := range vx.x {
				centroid[i] += c / float64(dim)
			}
		}

		worst := simplex[dim]

		// Reflection
		for i := range trial {
			trial[i] = centroid[i] + alpha*(centroid[i]-worst.x[i])
		}
		reflected := f(trial)

		switch {
		case reflected < simplex[0].v:
			// Expansion
			expanded := make([]float64, dim)
			for i := range expanded {
				expanded[i] = centroid[i] + gamma*(trial[i]-centroid[i])
			}
			if ev := f(expanded); ev < reflected {
				simplex[dim] = vertex{x: expanded, v: ev}
			} else {
				simplex[dim] = vertex{x: append([]float64(nil), trial...), v: reflected}
			}
		case reflected < simplex[dim-1].v:
			simplex[dim] = vertex{x: append([]float64(nil), trial...), v: reflected}
		default:
			// Contraction
			for i := range trial {
				trial[i] = centroid[i] + rho*(worst.x[i]-centroid[i])
			}
			if cv := f(trial); cv < worst.v {
				simplex[dim] = vertex{x: append([]float64(nil), trial...), v: cv}
			} else {
				// Shrink toward the best vertex
				best := simplex[0]
				for j := 1; j <= dim; j++ {
					for i := range simplex[j].x {
						simplex[j].x[i] = best.x[i] + sigma*(simplex[j].x[i]-best.x[i])
					}
					simplex[j].v = f(simplex[j].x)
				}
			}
		}
	}

	sort.Slice(simplex, func(i, j int) bool { return simplex[i].v < simplex[j].v })
	if math.IsNaN(simplex[0].v) || math.IsInf(simplex[0].v, 0) {
		return simplex[0].x, simplex[0].v, false
	}
	// Ran out of iterations; accept the best point if the simplex is tight.
	spread := math.Abs(simplex[dim].v - simplex[0].v)
	return simplex[0].x, simplex[0].v, spread < math.Sqrt(tol)*(math.Abs(simplex[0].v)+1)
}
