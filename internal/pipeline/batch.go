// Package pipeline runs ranking requests end to end: decode, validate, rank
// and wrap the outcome in a response envelope. Batches run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ranker/internal/parsing"
	"github.com/jonathan/resume-ranker/internal/ranking"
	"github.com/jonathan/resume-ranker/internal/types"
)

// DefaultWorkers is the batch concurrency used when none is configured.
const DefaultWorkers = 4

// ProgressEvent reports the outcome of one request in a batch.
type ProgressEvent struct {
	BatchID  string        `json:"batch_id"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ProgressCallback is called once per request as it finishes. It may be
// called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// BatchOptions configures RankBatch.
type BatchOptions struct {
	Workers    int
	OnProgress ProgressCallback
}

// RankPayload decodes one raw request and ranks it. The returned error is the
// failure already described by the response, kept so callers can classify it.
func RankPayload(r *ranking.Ranker, payload []byte) (types.RankResponse, error) {
	req, err := parsing.ParseRankRequest(payload)
	if err != nil {
		return types.NewErrorResponse(err), err
	}
	results, err := r.RankRequest(req)
	if err != nil {
		return types.NewErrorResponse(err), err
	}
	return types.NewSuccessResponse(results), nil
}

// RankBatch ranks independent raw requests concurrently and returns one
// response per payload, in input order. A failing request only fails its own
// response. Once ctx is done no further requests start; the ones that never
// ran are answered with the context error.
func RankBatch(ctx context.Context, r *ranking.Ranker, payloads [][]byte, opts BatchOptions) []types.RankResponse {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	responses := make([]types.RankResponse, len(payloads))
	started := make([]bool, len(payloads))
	batchID := uuid.NewString()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, payload := range payloads {
		if gCtx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			start := time.Now()
			resp, _ := RankPayload(r, payload)
			responses[i] = resp
			if opts.OnProgress != nil {
				opts.OnProgress(ProgressEvent{
					BatchID:  batchID,
					Index:    i,
					Total:    len(payloads),
					Success:  resp.Success,
					Error:    resp.Error,
					Duration: time.Since(start),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	for i := range responses {
		if !started[i] {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("request was not scheduled")
			}
			responses[i] = types.NewErrorResponse(fmt.Errorf("batch canceled: %w", err))
		}
	}
	return responses
}
