// Package provider holds the adapters that translate normalized search
// criteria into source-native HTTP queries and map native results back into
// the shared slim opportunity shape. Provider-native field names and date
// formats never leak past this package.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
)

var ErrNotFound = errors.New("opportunity or description not found at source")

// SearchResult is one adapter's contribution to an aggregated page.
type SearchResult struct {
	Items []entity.SearchOpportunitySlim
	Total int
}

// OpportunityProvider is the capability every source adapter implements.
type OpportunityProvider interface {
	// Search runs the criteria against the source and returns one page of
	// normalized items plus the source-reported (or conservatively derived)
	// total.
	Search(ctx context.Context, criteria *entity.SearchCriteria, apiKey string) (*SearchResult, error)

	// GetDescription fetches the long-form description behind descriptionRef.
	// The returned string is raw, unsanitized HTML; callers must sanitize
	// before rendering.
	GetDescription(ctx context.Context, descriptionRef string, apiKey string) (string, error)

	// ListAttachments enumerates the files attached to one opportunity.
	ListAttachments(ctx context.Context, query *entity.AttachmentQuery, apiKey string) ([]entity.Attachment, error)

	// DownloadAttachment retrieves one attachment's bytes and content type.
	DownloadAttachment(ctx context.Context, att *entity.Attachment, apiKey string) ([]byte, string, error)
}

// ProviderError carries a source call failure as one human-readable message
// so the aggregator can surface it per source without a partial-failure crash.
type ProviderError struct {
	Source  string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// newProviderError flattens a non-2xx provider response body into a single
// readable line, truncated so an HTML error page can't flood the result.
func newProviderError(source string, status int, body []byte) *ProviderError {
	msg := strings.Join(strings.Fields(string(body)), " ")
	if len(msg) > 300 {
		msg = msg[:300] + "…"
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &ProviderError{
		Source:  source,
		Message: fmt.Sprintf("%s returned %d: %s", source, status, msg),
	}
}

// Registry is the closed source → adapter mapping. Business logic dispatches
// through it instead of branching on source strings.
type Registry struct {
	providers map[string]OpportunityProvider
}

func NewRegistry(samGov OpportunityProvider, dibbs OpportunityProvider) *Registry {
	return &Registry{
		providers: map[string]OpportunityProvider{
			common.SourceSamGov: samGov,
			common.SourceDibbs:  dibbs,
		},
	}
}

func (r *Registry) Provider(source string) (OpportunityProvider, bool) {
	p, ok := r.providers[source]
	return p, ok
}

// Sources returns the known sources in fixed priority order.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(common.SourcePriority))
	for _, s := range common.SourcePriority {
		if _, ok := r.providers[s]; ok {
			out = append(out, s)
		}
	}

	return out
}

// httpFetcher is the shared outbound HTTP plumbing for adapters: one client
// with an explicit timeout and a rate limiter so search bursts stay inside
// provider throttling budgets.
type httpFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	source  string
}

func newHTTPFetcher(source string, timeout time.Duration, rps float64) *httpFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if rps <= 0 {
		rps = 5
	}

	return &httpFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		source:  source,
	}
}

// get performs a rate-limited GET and returns the body for 2xx responses.
// A 404 maps to ErrNotFound, everything else non-2xx to a ProviderError.
func (f *httpFetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &ProviderError{Source: f.source, Message: fmt.Sprintf("%s request failed: %v", f.source, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &ProviderError{Source: f.source, Message: fmt.Sprintf("%s response read failed: %v", f.source, err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", newProviderError(f.source, resp.StatusCode, body)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
