package render

import (
	"image"
	"runtime"
	"sync"
)

// Pool renders batches of scenes on a fixed set of goroutines.
type Pool struct {
	renderer   *Renderer
	numWorkers int
	jobChan    chan renderJob
	wg         sync.WaitGroup
	running    bool
	mu         sync.Mutex
}

type renderJob struct {
	scene  Scene
	index  int
	out    []image.Image
	doneWg *sync.WaitGroup
}

// sequentialThreshold is the batch size below which Pool skips the workers.
const sequentialThreshold = 4

// NewPool creates a pool of numWorkers goroutines. Zero or less uses
// NumCPU, capped at 16.
func NewPool(r *Renderer, numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > 16 {
		numWorkers = 16
	}
	return &Pool{
		renderer:   r,
		numWorkers: numWorkers,
		jobChan:    make(chan renderJob, numWorkers*2),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.wg.Add(p.numWorkers)
	for i := 0; i < p.numWorkers; i++ {
		go p.worker()
	}
}

// Stop waits for queued jobs and stops the workers. A stopped pool cannot be
// restarted.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.jobChan)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobChan {
		job.out[job.index] = p.renderer.Render(job.scene)
		job.doneWg.Done()
	}
}

// RenderAll renders scenes in order. Small batches and a stopped pool
// render on the calling goroutine.
func (p *Pool) RenderAll(scenes []Scene) []image.Image {
	out := make([]image.Image, len(scenes))

	p.mu.Lock()
	running := p.running
	p.mu.Unlock()

	if !running || len(scenes) < sequentialThreshold {
		for i, s := range scenes {
			out[i] = p.renderer.Render(s)
		}
		return out
	}

	var done sync.WaitGroup
	done.Add(len(scenes))
	for i, s := range scenes {
		p.jobChan <- renderJob{scene: s, index: i, out: out, doneWg: &done}
	}
	done.Wait()
	return out
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// IsRunning reports whether the pool accepts work.
func (p *Pool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
