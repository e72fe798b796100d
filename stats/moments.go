package stats

import "math"

// Moments maintains the running count, mean and variance of a stream of
// observations using Welford's update, one value at a time, without
// retaining the observations themselves. The update never subtracts two
// large nearly-equal quantities, so the variance stays accurate even
// when every value carries a large constant offset.
//
// A Moments value is owned by a single goroutine. Concurrent ingestion
// should use one accumulator per source and combine them with Merge.
type Moments struct {
	count uint64
	mean  float64
	m2    float64
}

func NewMoments() *Moments {
	return &Moments{
		count: 0,
		mean:  0,
		m2:    0,
	}
}

// MomentsFromState rebuilds an accumulator from a (count, mean, m2)
// triple previously obtained via State.
func MomentsFromState(count uint64, mean float64, m2 float64) *Moments {
	return &Moments{
		count: count,
		mean:  mean,
		m2:    m2,
	}
}

// CheckFinite reports ErrInvalidInput for values Observe would reject.
func CheckFinite(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidInput
	}
	return nil
}

// Observe folds a single value into the running moments. The value is
// validated before any field is touched: on error the accumulator is
// unchanged.
func (m *Moments) Observe(value float64) error {
	if err := CheckFinite(value); err != nil {
		return err
	}
	m.count++
	delta := value - m.mean
	m.mean += delta / float64(m.count)
	delta2 := value - m.mean
	m.m2 += delta * delta2
	return nil
}

func (m *Moments) Count() uint64 {
	return m.count
}

func (m *Moments) Mean() (float64, error) {
	if m.count == 0 {
		return 0, ErrEmptyAccumulator
	}
	return m.mean, nil
}

// Variance returns m2 / (count - ddof). ddof 0 selects the population
// variance, ddof 1 the sample variance.
func (m *Moments) Variance(ddof uint64) (float64, error) {
	if m.count == 0 {
		return 0, ErrEmptyAccumulator
	}
	if ddof >= m.count {
		return 0, ErrInsufficientSamples
	}
	return m.m2 / float64(m.count-ddof), nil
}

func (m *Moments) PopulationVariance() (float64, error) {
	return m.Variance(0)
}

func (m *Moments) SampleVariance() (float64, error) {
	return m.Variance(1)
}

func (m *Moments) Stddev(ddof uint64) (float64, error) {
	variance, err := m.Variance(ddof)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

// CV returns the coefficient of variation, sample stddev over mean.
func (m *Moments) CV() (float64, error) {
	sd, err := m.Stddev(1)
	if err != nil {
		return 0, err
	}
	return sd / m.mean, nil
}

// State returns the raw (count, mean, m2) triple for checkpointing.
func (m *Moments) State() (uint64, float64, float64) {
	return m.count, m.mean, m.m2
}

func (m *Moments) Reset() {
	m.count = 0
	m.mean = 0
	m.m2 = 0
}

// Merge combines two independently accumulated streams into a fresh
// accumulator equivalent to having observed the concatenation of both
// underlying sequences, in any order. Neither operand is modified.
// If exactly one operand is empty the result is a copy of the other;
// merging two empty accumulators fails with ErrEmptyAccumulator.
func (m *Moments) Merge(other *Moments) (*Moments, error) {
	if m.count == 0 && other.count == 0 {
		return nil, ErrEmptyAccumulator
	}
	if m.count == 0 {
		copied := *other
		return &copied, nil
	}
	if other.count == 0 {
		copied := *m
		return &copied, nil
	}

	count := m.count + other.count
	delta := other.mean - m.mean
	nA := float64(m.count)
	nB := float64(other.count)
	n := float64(count)
	return &Moments{
		count: count,
		mean:  m.mean + delta*nB/n,
		m2:    m.m2 + other.m2 + delta*delta*nA*nB/n,
	}, nil
}

// MergeInto folds other into m in place. An empty other is a no-op, so
// MergeInto is usable as the step of a reduction loop without special
// cases.
func (m *Moments) MergeInto(other *Moments) error {
	if other.count == 0 {
		return nil
	}
	merged, err := m.Merge(other)
	if err != nil {
		return err
	}
	*m = *merged
	return nil
}
