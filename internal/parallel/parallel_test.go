package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_VisitsEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	n := 1000
	hits := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, cfg)

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	For(5, func(i int) { order = append(order, i) }, Config{Enabled: false})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestChunks(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100}

	assert.Equal(t, 1, Chunks(150, cfg), "too short to split")
	assert.Equal(t, 2, Chunks(200, cfg))
	assert.Equal(t, 4, Chunks(1000, cfg))
	assert.Equal(t, 1, Chunks(1000, Config{Enabled: false, NumWorkers: 4}))
	assert.Equal(t, 1, Chunks(1000, Config{Enabled: true, NumWorkers: 1}))
	assert.Equal(t, 1, Chunks(0, Config{Enabled: true, NumWorkers: 4}))
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	assert.False(t, called)
}
