package core

import (
	"github.com/kelindar/binary"

	"streamstat/stats"
)

// MomentsState is the serializable (count, mean, m2) triple of a
// moment accumulator.
type MomentsState struct {
	Count uint64
	Mean  float64
	M2    float64
}

func NewMomentsState(moments *stats.Moments) MomentsState {
	count, mean, m2 := moments.State()
	return MomentsState{
		Count: count,
		Mean:  mean,
		M2:    m2,
	}
}

func (state MomentsState) Moments() *stats.Moments {
	return stats.MomentsFromState(state.Count, state.Mean, state.M2)
}

// Snapshot is the persisted state of a stream: value moments, interval
// moments and arrival metadata.
type Snapshot struct {
	Values                MomentsState
	Intervals             MomentsState
	FirstArrivalTimestamp int64
	LastArrivalTimestamp  int64
}

func SnapshotToBytes(snapshot *Snapshot) ([]byte, error) {
	return binary.Marshal(snapshot)
}

func BytesToSnapshot(buf []byte) (*Snapshot, error) {
	snapshot := &Snapshot{}
	if err := binary.Unmarshal(buf, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
