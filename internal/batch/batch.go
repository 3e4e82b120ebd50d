// Package batch runs independent battles on a bounded worker pool.
package batch

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"cocsim/internal/game"
)

// Job is one battle to simulate.
type Job struct {
	Name      string          `json:"name,omitempty"`
	Map       game.Map        `json:"map"`
	Plan      game.AttackPlan `json:"plan"`
	DeltaTime float64         `json:"deltaT,omitempty"` // 0 uses game.DefaultDeltaTime
}

// JobResult is the outcome of Job number Index.
type JobResult struct {
	Index    int           `json:"index"`
	Name     string        `json:"name,omitempty"`
	Result   game.Result   `json:"result"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`

	err error
}

// Err returns the simulation error of the job, if any.
func (r JobResult) Err() error {
	return r.err
}

// Options tune Run.
type Options struct {
	Workers int // zero or less uses NumCPU
	// OnResult, if set, is called from worker goroutines as jobs finish.
	OnResult func(JobResult)
}

// Repeat returns n copies of job.
func Repeat(job Job, n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = job
	}
	return jobs
}

// Run simulates jobs in parallel and returns their results in job order.
// When ctx is cancelled, jobs not started yet fail with the context error
// and Run returns it.
func Run(ctx context.Context, jobs []Job, opts Options) ([]JobResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(1, len(jobs)))

	results := make([]JobResult, len(jobs))
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range queue {
				res := runOne(ctx, i, jobs[i])
				results[i] = res
				if opts.OnResult != nil {
					opts.OnResult(res)
				}
			}
		}()
	}
	wg.Wait()

	return results, ctx.Err()
}

func runOne(ctx context.Context, i int, job Job) JobResult {
	res := JobResult{Index: i, Name: job.Name}
	if err := ctx.Err(); err != nil {
		res.err, res.Error = err, err.Error()
		return res
	}

	dt := job.DeltaTime
	if dt == 0 {
		dt = game.DefaultDeltaTime
	}
	start := time.Now()
	r, err := game.Simulate(ctx, job.Map, job.Plan, dt)
	res.Duration = time.Since(start)
	res.Result = r
	if err != nil {
		res.err, res.Error = err, err.Error()
	}
	return res
}

// Summary aggregates finished jobs. Failed jobs count in Runs and Failed
// only.
type Summary struct {
	Runs          int     `json:"runs"`
	Failed        int     `json:"failed"`
	MeanStars     float64 `json:"meanStars"`
	MeanPercent   float64 `json:"meanPercent"`
	MeanTime      float64 `json:"meanTime"`
	ThreeStarRate float64 `json:"threeStarRate"`
	StarCounts    [4]int  `json:"starCounts"`
}

// Summarize computes the summary of results.
func Summarize(results []JobResult) Summary {
	s := Summary{Runs: len(results)}
	var stars, percent, elapsed float64
	ok := 0

	for _, r := range results {
		if r.err != nil || r.Error != "" {
			s.Failed++
			continue
		}
		ok++
		stars += float64(r.Result.Stars)
		percent += float64(r.Result.Percent)
		elapsed += r.Result.TimeElapsed
		s.StarCounts[r.Result.Stars]++
	}
	if ok == 0 {
		return s
	}

	n := float64(ok)
	s.MeanStars = stars / n
	s.MeanPercent = percent / n
	s.MeanTime = elapsed / n
	s.ThreeStarRate = float64(s.StarCounts[3]) / n
	return s
}

// FirstError returns the first job error in job order.
func FirstError(results []JobResult) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		if r.Error != "" {
			return errors.New(r.Error)
		}
	}
	return nil
}
