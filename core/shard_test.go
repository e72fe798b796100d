package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShard_Consume(t *testing.T) {
	shard := NewShard(NewBarrier(1))

	buffer := NewIngestBuffer(4)
	buffer.Append(1, 1.0)
	buffer.Append(2, 2.0)
	buffer.Append(3, 3.0)
	shard.consume(buffer)

	assert.Equal(t, shard.moments.Count(), uint64(3))
	mean, err := shard.moments.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 2.0)
	assert.Equal(t, shard.Rejected(), uint64(0))
}

func TestShard_ConsumeCountsRejected(t *testing.T) {
	shard := NewShard(NewBarrier(1))

	// The pipeline validates before buffering, but a buffer itself
	// accepts any float64.
	buffer := NewIngestBuffer(4)
	buffer.Append(1, 1.0)
	buffer.Append(2, math.NaN())
	buffer.Append(3, math.Inf(1))
	buffer.Append(4, 2.0)
	shard.consume(buffer)

	assert.Equal(t, shard.moments.Count(), uint64(2))
	assert.Equal(t, shard.Rejected(), uint64(2))

	mean, err := shard.moments.Mean()
	assert.NoError(t, err)
	assert.Equal(t, mean, 1.5)
}
