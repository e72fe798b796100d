package core

import (
	cmp "github.com/google/go-cmp/cmp"
	"testing"

	"streamstat/stats"
	"streamstat/utils"
)

func TestSnapshotSerialization(t *testing.T) {
	moments := stats.NewMoments()
	for i := 1; i <= 10; i++ {
		utils.AssertEqual(t, moments.Observe(float64(i)), nil)
	}
	intervals := stats.NewMoments()
	utils.AssertEqual(t, intervals.Observe(10.0), nil)
	utils.AssertEqual(t, intervals.Observe(20.0), nil)

	snapshot := &Snapshot{
		Values:                NewMomentsState(moments),
		Intervals:             NewMomentsState(intervals),
		FirstArrivalTimestamp: 100,
		LastArrivalTimestamp:  130,
	}

	buf, err := SnapshotToBytes(snapshot)
	utils.AssertEqual(t, err, nil)
	newSnapshot, err := BytesToSnapshot(buf)
	utils.AssertEqual(t, err, nil)

	utils.AssertTrue(t, cmp.Equal(snapshot, newSnapshot))

	restored := newSnapshot.Values.Moments()
	utils.AssertEqual(t, restored.Count(), moments.Count())
	restoredVariance, err := restored.Variance(1)
	utils.AssertEqual(t, err, nil)
	wantVariance, err := moments.Variance(1)
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, restoredVariance, wantVariance)
}

func TestSnapshotSerializationEmpty(t *testing.T) {
	snapshot := &Snapshot{
		Values:                NewMomentsState(stats.NewMoments()),
		Intervals:             NewMomentsState(stats.NewMoments()),
		FirstArrivalTimestamp: -1,
		LastArrivalTimestamp:  -1,
	}

	buf, err := SnapshotToBytes(snapshot)
	utils.AssertEqual(t, err, nil)
	newSnapshot, err := BytesToSnapshot(buf)
	utils.AssertEqual(t, err, nil)

	utils.AssertTrue(t, cmp.Equal(snapshot, newSnapshot))
	utils.AssertEqual(t, newSnapshot.Values.Moments().Count(), uint64(0))
}
