package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options control a pass over the dataset.
type Options struct {
	Start int
	Count int
	// Interval between two predict calls across all workers; zero means unpaced.
	Interval time.Duration
	Workers  int
	// Reset clears the server counters before the first request.
	Reset bool
	// StopOnInvalid ends the run at the first rejected index,
	// which is how the end of the dataset is discovered when Count is too large.
	StopOnInvalid bool
}

type Summary struct {
	Sent      int
	Failed    int
	Correct   int
	Incorrect int
	// Misses holds the incorrect counter value reported with each miss.
	Misses  []int
	Elapsed time.Duration
}

func (s Summary) Accuracy() float64 {
	total := s.Correct + s.Incorrect
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total)
}

type Runner struct {
	Client *Client
}

func NewRunner(client *Client) *Runner {
	return &Runner{Client: client}
}

func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Count <= 0 {
		return Summary{}, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	start := time.Now()
	if opts.Reset {
		res, err := r.Client.Reset(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to reset: %w", err)
		}
		log.Info().Str("message", res.Message).Msg("server reset")
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	indices := make(chan int)
	var (
		mu      sync.Mutex
		summary Summary
		best    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(indices)
		for i := opts.Start; i < opts.Start+opts.Count; i++ {
			if err := limiter.Wait(gctx); err != nil {
				return nil
			}
			select {
			case indices <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error {
			for idx := range indices {
				res, err := r.Client.Predict(gctx, idx)
				mu.Lock()
				summary.Sent++
				if err != nil {
					summary.Failed++
					mu.Unlock()
					if errors.Is(err, ErrInvalidIndex) && opts.StopOnInvalid {
						log.Info().Int("index", idx).Msg("index rejected, stopping")
						return fmt.Errorf("index %d: %w", idx, err)
					}
					log.Warn().Err(err).Int("index", idx).Msg("prediction request failed")
					continue
				}
				// responses may arrive out of order, keep the latest counters
				if total := res.Correct + res.Incorrect; total >= best {
					best = total
					summary.Correct = res.Correct
					summary.Incorrect = res.Incorrect
				}
				if res.IsIncorrect {
					summary.Misses = append(summary.Misses, res.Incorrect)
				}
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	summary.Elapsed = time.Since(start)
	if errors.Is(err, ErrInvalidIndex) {
		return summary, nil
	}
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}
