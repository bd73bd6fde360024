package runtime

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/black007php/amp-toolbox/internal/validator"
)

// fakeVersionSource counts calls and serves a fixed version or error.
type fakeVersionSource struct {
	mu      sync.Mutex
	version string
	err     error
	calls   int
}

func (f *fakeVersionSource) CurrentVersion(ctx context.Context, ampURLPrefix string, lts bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.version, nil
}

func (f *fakeVersionSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeVersionSource) set(version string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = version
	f.err = err
}

type fakeResponse struct {
	status int
	body   string
}

// fakeFetcher serves canned responses per URL and records request order.
// URLs without a canned response get a 404.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []string
	err       error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]fakeResponse)}
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.responses[url]
	if !ok {
		resp = fakeResponse{status: http.StatusNotFound}
	}
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
	}, nil
}

func (f *fakeFetcher) requestedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

const fakeRulesJSON = `{"validatorRevision":42,"specFileRevision":7,` +
	`"tags":[{"tagName":"HTML","mandatory":true},{"tagName":"HEAD"}]}`

// fakeRuleProvider parses the canned rules JSON, counting how each entry
// point is exercised.
type fakeRuleProvider struct {
	mu         sync.Mutex
	err        error
	fetchCalls int
	rawCalls   int
}

func (f *fakeRuleProvider) Fetch(ctx context.Context) (*validator.RuleSet, error) {
	f.mu.Lock()
	f.fetchCalls++
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return validator.NewProvider(nil).FetchFromRaw([]byte(fakeRulesJSON))
}

func (f *fakeRuleProvider) FetchFromRaw(raw []byte) (*validator.RuleSet, error) {
	f.mu.Lock()
	f.rawCalls++
	f.mu.Unlock()
	return validator.NewProvider(nil).FetchFromRaw(raw)
}
