package scoring

import "math"

// rollingMean returns the trailing simple moving average of values over window.
// Points before the window is full are NaN. Runs in O(n) with a compensated
// windowed sum; a window of identical values yields that value exactly.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	var (
		sum, comp float64
		same      int // length of the run of identical values ending at i
	)
	add := func(v float64) {
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}

	for i, v := range values {
		add(v)
		if i >= window {
			add(-values[i-window])
		}

		if i > 0 && v == values[i-1] {
			same++
		} else {
			same = 1
		}

		switch {
		case i < window-1:
			out[i] = math.NaN()
		case same >= window:
			out[i] = v
		default:
			out[i] = sum / float64(window)
		}
	}

	return out
}

// lastDefined returns the final point of a rolling series, false when it is undefined
func lastDefined(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	last := series[len(series)-1]
	if math.IsNaN(last) {
		return 0, false
	}
	return last, true
}
