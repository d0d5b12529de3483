// --- qamaster-server/source/source.go ---
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"qamaster-server/allowlist"
	"qamaster-server/bank"
	"qamaster-server/models"
	"qamaster-server/tabular"
)

var (
	// ErrSourceUnavailable: the tabular text could not be retrieved.
	// Retryable; the previously loaded bank is left untouched.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEmptyBank: retrieval succeeded but zero questions parsed. Reported
	// separately from a transport failure.
	ErrEmptyBank = errors.New("source contains no usable data")
)

// Fetcher retrieves opaque text by URL. Transport details stay behind this
// boundary so the pipeline is testable without a network.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches over HTTP with a per-request timeout.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// Loader owns the current question bank. Each refresh parses and builds a
// complete replacement and swaps it in wholesale; the bank handed out is
// immutable after the swap, so running sessions never observe a partial
// update.
type Loader struct {
	fetcher Fetcher
	url     string
	cols    models.ColumnMap

	seq uint64 // issued request ordinals

	mu         sync.RWMutex
	bank       models.Bank
	appliedSeq uint64
}

func NewLoader(fetcher Fetcher, url string, cols models.ColumnMap) *Loader {
	return &Loader{fetcher: fetcher, url: url, cols: cols}
}

// Refresh fetches the question source and replaces the bank.
//
// Refreshes are not deduplicated: several may be in flight at once, so each
// is tagged with a sequence number taken at issue time and a completion that
// would roll the bank back past a newer one is dropped. A transport failure
// or an empty result leaves the prior bank in place.
func (l *Loader) Refresh(ctx context.Context) error {
	seq := atomic.AddUint64(&l.seq, 1)

	text, err := l.fetcher.FetchText(ctx, l.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	questions := bank.Build(tabular.Parse(text), l.cols)
	if len(questions) == 0 {
		return ErrEmptyBank
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.appliedSeq {
		log.Printf("Dropping stale question-source response (request %d, bank at %d)", seq, l.appliedSeq)
		return nil
	}
	l.bank = models.Bank{Questions: questions, FetchedAt: time.Now()}
	l.appliedSeq = seq
	return nil
}

// Bank returns the current bank. The questions slice is shared and must be
// treated as read-only; every refresh replaces it rather than editing it.
func (l *Loader) Bank() models.Bank {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bank
}

// Questions is shorthand for the current bank's question collection.
func (l *Loader) Questions() []models.Question {
	return l.Bank().Questions
}

// Authorizer gates entry against the allow-list source. The list is
// re-fetched on every attempt so revocations in the sheet take effect
// immediately; nothing is cached here.
type Authorizer struct {
	fetcher Fetcher
	url     string
}

func NewAuthorizer(fetcher Fetcher, url string) *Authorizer {
	return &Authorizer{fetcher: fetcher, url: url}
}

// Authorize reports whether email is on the allow-list. A fetch failure is
// an error distinct from a membership denial, so the caller can choose to
// tell the user apart from an unauthorized one.
func (a *Authorizer) Authorize(ctx context.Context, email string) (bool, error) {
	text, err := a.fetcher.FetchText(ctx, a.url)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	list := allowlist.Build(tabular.Parse(text))
	return list.Contains(email), nil
}
