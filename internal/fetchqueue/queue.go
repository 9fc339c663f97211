package fetchqueue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"crate/internal/assets"
	"crate/internal/config"
	"crate/internal/logging"
)

// maxAssetBytes bounds a single cover-art download.
const maxAssetBytes = 32 << 20

// AlbumUpdater is the catalog surface the queue needs to back-fill cache
// pointers.
type AlbumUpdater interface {
	UpdateAlbumImage(ctx context.Context, albumID int64, path string) error
}

// Request is one pending cover-art download.
type Request struct {
	Ref     string
	AlbumID int64
}

// Status is a point-in-time snapshot of queue state.
type Status struct {
	Pending  int  `json:"pendingCount"`
	Draining bool `json:"isDraining"`
}

// Queue serializes cover-art downloads through a single worker.
type Queue struct {
	cache      *assets.Cache
	store      AlbumUpdater
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	pacing     time.Duration

	mu       sync.Mutex
	pending  []Request
	inflight map[string]struct{}
	draining bool

	wake   chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
}

// Option configures a Queue.
type Option func(*Queue)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(q *Queue) {
		if client != nil {
			q.httpClient = client
		}
	}
}

// WithPacing overrides the delay between consecutive downloads.
func WithPacing(delay time.Duration) Option {
	return func(q *Queue) {
		q.pacing = delay
	}
}

// New constructs a queue. Start must be called before downloads proceed;
// Enqueue may be called earlier and accumulates.
func New(cfg *config.Config, cache *assets.Cache, store AlbumUpdater, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = logging.NewNop()
	}
	q := &Queue{
		cache:      cache,
		store:      store,
		logger:     logging.WithComponent(logger, "fetchqueue"),
		baseURL:    strings.TrimRight(cfg.Assets.BaseURL, "/"),
		httpClient: &http.Client{},
		timeout:    time.Duration(cfg.Assets.RequestTimeout) * time.Second,
		pacing:     time.Duration(cfg.Assets.PacingMillis) * time.Millisecond,
		inflight:   make(map[string]struct{}),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the worker goroutine.
func (q *Queue) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	go q.run(runCtx)
}

// Stop terminates the worker and waits for it to exit. In-flight downloads
// run to completion or timeout; there is no cancellation mid-download
// beyond the run context.
func (q *Queue) Stop() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	<-q.done
}

// Enqueue registers a cover-art download unless the asset is already
// cached on disk or an entry for the same reference is already pending.
// It returns whether the request was accepted. Enqueue never blocks.
func (q *Queue) Enqueue(ref string, albumID int64) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if q.cache.Has(ref) {
		return false
	}

	q.mu.Lock()
	if _, dup := q.inflight[ref]; dup {
		q.mu.Unlock()
		return false
	}
	q.inflight[ref] = struct{}{}
	q.pending = append(q.pending, Request{Ref: ref, AlbumID: albumID})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	q.logger.Debug("asset enqueued",
		logging.String(logging.FieldAssetRef, ref),
		logging.Int64(logging.FieldAlbumID, albumID),
	)
	return true
}

// Status returns a point-in-time read of pending count and drain state.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{Pending: len(q.pending), Draining: q.draining}
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for {
		req, ok := q.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		q.process(ctx, req)
		q.release(req.Ref)

		if q.pacing > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(q.pacing):
			}
		}
	}
}

// next pops the oldest pending request. An empty list flips the queue back
// to idle.
func (q *Queue) next() (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		q.draining = false
		return Request{}, false
	}
	req := q.pending[0]
	q.pending = q.pending[1:]
	q.draining = true
	return req, true
}

// release clears the in-flight marker. After a successful download the
// cache blocks re-enqueue; after a failure a later run may re-enqueue.
func (q *Queue) release(ref string) {
	q.mu.Lock()
	delete(q.inflight, ref)
	q.mu.Unlock()
}

func (q *Queue) process(ctx context.Context, req Request) {
	if q.cache.Has(req.Ref) {
		return
	}

	data, err := q.download(ctx, req.Ref)
	if err != nil {
		q.logger.Warn("asset download failed; discarding",
			logging.String(logging.FieldAssetRef, req.Ref),
			logging.Int64(logging.FieldAlbumID, req.AlbumID),
			logging.Error(err),
		)
		return
	}

	path, err := q.cache.Write(req.Ref, data)
	if err != nil {
		q.logger.Warn("asset cache write failed; discarding",
			logging.String(logging.FieldAssetRef, req.Ref),
			logging.Error(err),
		)
		return
	}

	if err := q.store.UpdateAlbumImage(ctx, req.AlbumID, path); err != nil {
		q.logger.Warn("album cache pointer update failed",
			logging.Int64(logging.FieldAlbumID, req.AlbumID),
			logging.Error(err),
		)
		return
	}

	q.logger.Info("asset cached",
		logging.String(logging.FieldAssetRef, req.Ref),
		logging.Int64(logging.FieldAlbumID, req.AlbumID),
		logging.Int("bytes", len(data)),
	)
}

func (q *Queue) download(ctx context.Context, ref string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	url := q.baseURL + "/" + strings.TrimLeft(ref, "/")
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch asset: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("read asset body: %w", err)
	}
	return data, nil
}
