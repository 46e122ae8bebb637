// Package parallel runs independent tile builds on a fixed set of workers.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned for work submitted to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// Job is one unit of work. It should return promptly once ctx is done.
type Job func(ctx context.Context) error

// Pool is a fixed set of goroutines, each with its own queue. Idle workers
// take jobs from the queues of busy ones.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held for reading while jobs are queued and for writing while
	// closing, so no job is queued after the workers stop.
	mu      sync.RWMutex
	running bool
}

// NewPool starts a pool of workers goroutines, or GOMAXPROCS when workers
// is not positive.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)
	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
		running: true,
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}
		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func (p *Pool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Run distributes jobs round-robin over the workers and waits for all of
// them. Jobs not yet started when ctx is done are skipped with ctx's error.
// The returned error joins the errors of all jobs.
func (p *Pool) Run(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}
	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		return ErrClosed
	}

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = job(ctx)
		}
	}
	p.mu.RUnlock()
	wg.Wait()
	return errors.Join(errs...)
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// Close waits for queued work and stops the workers. It is safe to call
// more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}
