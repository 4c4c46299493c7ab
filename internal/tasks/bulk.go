package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/vidup/internal/models"
)

// BulkPublishOpts contains configuration for bulk publishing.
type BulkPublishOpts struct {
	Workers     int                // Concurrent workers (default: 3, max: 10)
	RateLimit   float64            // Initiate calls per second (default: 2)
	OnPublished func(models.Video) // Called from a single goroutine for each success
}

// PublishResult is the outcome for one video of a bulk publish.
type PublishResult struct {
	VideoID string
	Title   string
	Video   *models.Video
	Error   error
}

// BulkPublishResult summarizes a bulk publish.
type BulkPublishResult struct {
	Total     int
	Published int
	Failed    int
	Skipped   int
	Results   []PublishResult
}

type publishJob struct {
	index int
	video models.Video
}

type indexedResult struct {
	index int
	PublishResult
}

// BulkPublish initiates every publishable video concurrently with rate limiting and progress tracking.
//
// Videos that are already UPLOADING or UPLOADED are counted as skipped. A failure of one video does not stop the others.
func (t *Tracker) BulkPublish(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	videos []models.Video,
	opts BulkPublishOpts,
) (*BulkPublishResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	pending := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if v.Publishable() {
			pending = append(pending, v)
		}
	}

	result := &BulkPublishResult{
		Total:   len(videos),
		Skipped: len(videos) - len(pending),
		Results: make([]PublishResult, 0, len(pending)),
	}
	if len(pending) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan publishJob, len(pending))
	results := make(chan indexedResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go t.publishWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		sendProgress(prog, publishQueuedUpdate(len(pending)))
		for i, v := range pending {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, publishStartedUpdate(i+1, len(pending), v))
			jobs <- publishJob{index: i, video: v}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	collected := make([]indexedResult, 0, len(pending))
	for res := range results {
		completed++
		collected = append(collected, res)

		if res.Error == nil {
			result.Published++
			if opts.OnPublished != nil {
				opts.OnPublished(*res.Video)
			}
			sendProgress(prog, publishCompletedUpdate(completed, len(pending), res.Video))
		} else {
			result.Failed++
			sendProgress(prog, publishFailedUpdate(completed, len(pending), res.Title, res.Error))
		}
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	for _, res := range collected {
		result.Results = append(result.Results, res.PublishResult)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("bulk publish interrupted after %d of %d: %w", completed, len(pending), err)
	}
	return result, nil
}

// publishWorker initiates videos from the jobs channel.
func (t *Tracker) publishWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan publishJob,
	results chan<- indexedResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := indexedResult{index: job.index, PublishResult: PublishResult{VideoID: job.video.ID, Title: job.video.Title}}
		res.Video, res.Error = t.Initiate(ctx, job.video)
		results <- res
	}
}
