package capi

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// BatchOperation is one unit of work in a batch.
type BatchOperation[T any] struct {
	ID  string
	Run func(ctx context.Context) (T, error)
	// Callback, when set, receives the result as soon as the operation ends.
	// It may be called from several goroutines at once.
	Callback func(result *BatchResult[T])
}

// BatchResult is the outcome of one BatchOperation.
type BatchResult[T any] struct {
	ID       string
	Success  bool
	Data     T
	Error    error
	Duration time.Duration
}

// BatchExecutor runs operations with bounded concurrency. Each operation gets
// its own timeout derived from the caller's context.
type BatchExecutor[T any] struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates an executor. A concurrency of zero or less uses 5.
func NewBatchExecutor[T any](concurrency int) *BatchExecutor[T] {
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchConcurrency
	}

	return &BatchExecutor[T]{
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout. Zero or less disables it.
func (b *BatchExecutor[T]) SetTimeout(timeout time.Duration) *BatchExecutor[T] {
	b.timeout = timeout

	return b
}

// Execute runs every operation and returns the results in input order.
// Operations not yet started when ctx is cancelled fail with ctx's error.
func (b *BatchExecutor[T]) Execute(ctx context.Context, operations []BatchOperation[T]) []BatchResult[T] {
	results := make([]BatchResult[T], len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			result := &results[index]
			result.ID = operation.ID

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()

				if err := ctx.Err(); err != nil {
					result.Error = err

					break
				}

				b.run(ctx, operation, result)
			case <-ctx.Done():
				result.Error = ctx.Err()
			}

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}()
	}

	waitGroup.Wait()

	return results
}

func (b *BatchExecutor[T]) run(ctx context.Context, operation BatchOperation[T], result *BatchResult[T]) {
	opCtx := ctx

	if b.timeout > 0 {
		var cancel context.CancelFunc

		opCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	result.Data, result.Error = operation.Run(opCtx)
	result.Duration = time.Since(start)
	result.Success = result.Error == nil
}

// FirstBatchError returns the error of the first failed result, in input order.
func FirstBatchError[T any](results []BatchResult[T]) error {
	for _, result := range results {
		if result.Error != nil {
			return result.Error
		}
	}

	return nil
}
