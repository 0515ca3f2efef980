// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how For distributes work.
type Config struct {
	Enabled      bool // Run chunks on separate goroutines
	NumWorkers   int  // Upper bound on goroutines
	MinChunkSize int  // Minimum indices per goroutine
}

// DefaultConfig uses one worker per CPU. Ranges shorter than MinChunkSize
// run inline.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 256,
	}
}

// Chunks returns the number of goroutines For would start for n indices.
// It returns 1 for inline execution.
func Chunks(n int, cfg Config) int {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*max(cfg.MinChunkSize, 1) {
		return 1
	}
	size := chunkSize(n, cfg)
	return (n + size - 1) / size
}

func chunkSize(n int, cfg Config) int {
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// For calls f(i) for every i in [0, n). f must be safe for concurrent use
// on distinct indices. For returns once every call has returned.
func For(n int, f func(i int), cfg Config) {
	if Chunks(n, cfg) == 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	size := chunkSize(n, cfg)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
