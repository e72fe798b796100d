package stats

// NaiveMoments accumulates a running sum and sum of squares and derives
// the variance as E[X^2] - E[X]^2. The final subtraction cancels
// catastrophically when the data sits far from zero, losing most of the
// significant digits of the true variance. It exists as a contrast for
// Moments in tests and must not be used where precision matters.
type NaiveMoments struct {
	count uint64
	sum   float64
	sumSq float64
}

func NewNaiveMoments() *NaiveMoments {
	return &NaiveMoments{}
}

func (nm *NaiveMoments) Observe(value float64) error {
	if err := CheckFinite(value); err != nil {
		return err
	}
	nm.count++
	nm.sum += value
	nm.sumSq += value * value
	return nil
}

func (nm *NaiveMoments) Count() uint64 {
	return nm.count
}

func (nm *NaiveMoments) Mean() (float64, error) {
	if nm.count == 0 {
		return 0, ErrEmptyAccumulator
	}
	return nm.sum / float64(nm.count), nil
}

func (nm *NaiveMoments) Variance(ddof uint64) (float64, error) {
	if nm.count == 0 {
		return 0, ErrEmptyAccumulator
	}
	if ddof >= nm.count {
		return 0, ErrInsufficientSamples
	}
	mean := nm.sum / float64(nm.count)
	sumSqDev := nm.sumSq - float64(nm.count)*mean*mean
	// Cancellation can drive the estimate below zero.
	if sumSqDev < 0 {
		sumSqDev = 0
	}
	return sumSqDev / float64(nm.count-ddof), nil
}
