package stats

// StreamStatistics tracks the moments of a timestamped stream: one
// accumulator for the values and one for the inter-arrival intervals.
type StreamStatistics struct {
	FirstArrivalTimestamp int64
	LastArrivalTimestamp  int64
	IntervalStats         *Moments
	ValueStats            *Moments
}

func NewStreamStatistics() *StreamStatistics {
	return &StreamStatistics{
		FirstArrivalTimestamp: -1,
		LastArrivalTimestamp:  -1,
		IntervalStats:         NewMoments(),
		ValueStats:            NewMoments(),
	}
}

// Append folds one (timestamp, value) arrival. The value is validated
// first; a rejected value leaves the arrival bookkeeping untouched.
func (stream *StreamStatistics) Append(timestamp int64, value float64) error {
	if err := stream.ValueStats.Observe(value); err != nil {
		return err
	}

	if stream.FirstArrivalTimestamp == -1 {
		stream.FirstArrivalTimestamp = timestamp
	} else {
		interval := timestamp - stream.LastArrivalTimestamp
		// int64 converts to a finite float64, Observe cannot fail here.
		_ = stream.IntervalStats.Observe(float64(interval))
	}
	stream.LastArrivalTimestamp = timestamp
	return nil
}

func (stream *StreamStatistics) NumValues() uint64 {
	return stream.ValueStats.Count()
}
