package analytics

import "math"

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// populationStdDev is the standard deviation of the whole distribution
// (divides by n), matching how daily totals and monthly series are treated.
func populationStdDev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// coefficientOfVariation returns stddev/mean, or 0 when the mean is not positive.
func coefficientOfVariation(values []float64) float64 {
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	return populationStdDev(values, avg) / avg
}

// linearRegression computes slope and R-squared for y-values where x = 0, 1, 2, ...
func linearRegression(points []float64) (slope, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, 1
	}
	return slope, 1 - ssRes/ssTot
}

// futureValueOfAnnuity is the value after periods contributions of payment
// compounded at ratePerPeriod.
func futureValueOfAnnuity(payment, ratePerPeriod float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if ratePerPeriod == 0 {
		return payment * float64(periods)
	}
	return payment * (math.Pow(1+ratePerPeriod, float64(periods)) - 1) / ratePerPeriod
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// sanitizePayload replaces non-finite numbers so no NaN or Inf escapes into
// an insight payload.
func sanitizePayload(data map[string]any) map[string]any {
	for k, v := range data {
		switch n := v.(type) {
		case float64:
			if !finite(n) {
				data[k] = 0.0
			}
		case map[string]any:
			data[k] = sanitizePayload(n)
		case []map[string]any:
			for i := range n {
				n[i] = sanitizePayload(n[i])
			}
		}
	}
	return data
}
