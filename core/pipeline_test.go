package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"streamstat/stats"
)

func TestPipeline_Buffered(t *testing.T) {
	pipeline := NewPipeline(4)
	pipeline.SetBufferSize(8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipeline.Run(ctx)

	reference := stats.NewMoments()
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 1000; i++ {
		v := rng.NormFloat64()*3 + 5
		assert.NoError(t, pipeline.Append(int64(i), v))
		assert.NoError(t, reference.Observe(v))
	}
	pipeline.Flush(false)

	merged := pipeline.Merged()
	assert.Equal(t, merged.Count(), uint64(1000))
	assert.Equal(t, pipeline.NumElements(), int64(1000))
	assert.Equal(t, pipeline.Rejected(), uint64(0))

	mean, err := merged.Mean()
	assert.NoError(t, err)
	wantMean, err := reference.Mean()
	assert.NoError(t, err)
	assert.InEpsilon(t, wantMean, mean, 1e-9)

	variance, err := merged.Variance(0)
	assert.NoError(t, err)
	wantVariance, err := reference.Variance(0)
	assert.NoError(t, err)
	assert.InEpsilon(t, wantVariance, variance, 1e-9)

	// The pipeline keeps accepting appends after a flush.
	assert.NoError(t, pipeline.Append(1000, 1.0))
	pipeline.Flush(true)
	assert.Equal(t, pipeline.Merged().Count(), uint64(1001))
}

func TestPipeline_Unbuffered(t *testing.T) {
	pipeline := NewPipeline(1)

	for i := 0; i < 100; i++ {
		assert.NoError(t, pipeline.Append(int64(i), float64(i)))
	}

	merged := pipeline.Merged()
	assert.Equal(t, merged.Count(), uint64(100))
	mean, err := merged.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 49.5)
}

func TestPipeline_RejectsNonFinite(t *testing.T) {
	pipeline := NewPipeline(2)
	pipeline.SetBufferSize(4, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipeline.Run(ctx)

	assert.NoError(t, pipeline.Append(1, 1.0))

	err := pipeline.Append(2, math.NaN())
	assert.True(t, errors.Is(err, stats.ErrInvalidInput))
	err = pipeline.Append(3, math.Inf(-1))
	assert.True(t, errors.Is(err, stats.ErrInvalidInput))

	assert.Equal(t, pipeline.NumElements(), int64(1))

	pipeline.Flush(false)
	assert.Equal(t, pipeline.Merged().Count(), uint64(1))
	assert.Equal(t, pipeline.Rejected(), uint64(0))
}

func TestPipeline_MergedMatchesSingleAccumulator(t *testing.T) {
	for _, numShards := range []int64{1, 2, 7} {
		pipeline := NewPipeline(numShards)
		pipeline.SetBufferSize(16, 4)

		ctx, cancel := context.WithCancel(context.Background())
		pipeline.Run(ctx)

		single := stats.NewMoments()
		rng := rand.New(rand.NewSource(29))
		for i := 0; i < 500; i++ {
			v := rng.Float64() * 100
			assert.NoError(t, pipeline.Append(int64(i), v))
			assert.NoError(t, single.Observe(v))
		}
		pipeline.Flush(true)
		cancel()

		merged := pipeline.Merged()
		assert.Equal(t, merged.Count(), single.Count())

		variance, err := merged.Variance(1)
		assert.NoError(t, err)
		wantVariance, err := single.Variance(1)
		assert.NoError(t, err)
		assert.InEpsilon(t, wantVariance, variance, 1e-9)
	}
}

func BenchmarkPipeline_AppendBuffered(b *testing.B) {
	pipeline := NewPipeline(4)
	pipeline.SetBufferSize(1024, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipeline.Run(ctx)

	for n := 0; n < b.N; n++ {
		if err := pipeline.Append(int64(n), float64(n)); err != nil {
			b.FailNow()
		}
	}
	pipeline.Flush(true)
}

func BenchmarkPipeline_AppendUnbuffered(b *testing.B) {
	pipeline := NewPipeline(1)

	for n := 0; n < b.N; n++ {
		if err := pipeline.Append(int64(n), float64(n)); err != nil {
			b.FailNow()
		}
	}
}
