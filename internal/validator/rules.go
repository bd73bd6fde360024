// Package validator loads the AMP validator rule set from the CDN and
// rehydrates previously fetched rules from their raw JSON form.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// defaultRulesURL is where the canonical validator rules are published.
const defaultRulesURL = "https://cdn.ampproject.org/v0/validator.json"

// Fetcher is the HTTP capability the provider consumes.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// RuleSet is the parsed validator rule set. Raw holds the exact JSON bytes
// it was built from; that form is what gets persisted, since the parsed
// views do not round-trip losslessly.
type RuleSet struct {
	Raw []byte `json:"-"`

	ValidatorRevision int               `json:"validatorRevision"`
	SpecFileRevision  int               `json:"specFileRevision"`
	Tags              []TagSpec         `json:"tags"`
	ErrorFormats      map[string]string `json:"errorFormats"`
}

// TagSpec describes the validation rules for a single tag.
type TagSpec struct {
	TagName   string   `json:"tagName"`
	SpecName  string   `json:"specName,omitempty"`
	Mandatory bool     `json:"mandatory,omitempty"`
	Unique    bool     `json:"unique,omitempty"`
	AttrLists []string `json:"attrLists,omitempty"`
}

// Provider fetches and parses validator rules.
type Provider struct {
	fetch Fetcher
	url   string
}

// ProviderOption customizes a Provider.
type ProviderOption func(*Provider)

// WithRulesURL overrides the rules download location.
func WithRulesURL(url string) ProviderOption {
	return func(p *Provider) { p.url = url }
}

// NewProvider creates a Provider downloading from the canonical location
// unless overridden.
func NewProvider(fetch Fetcher, opts ...ProviderOption) *Provider {
	p := &Provider{fetch: fetch, url: defaultRulesURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch downloads the full rule set.
func (p *Provider) Fetch(ctx context.Context) (*RuleSet, error) {
	resp, err := p.fetch.Get(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("fetching validator rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching validator rules: unexpected HTTP status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading validator rules: %w", err)
	}
	return p.FetchFromRaw(raw)
}

// FetchFromRaw rebuilds a RuleSet from raw JSON without a network call.
func (p *Provider) FetchFromRaw(raw []byte) (*RuleSet, error) {
	rules := &RuleSet{}
	if err := json.Unmarshal(raw, rules); err != nil {
		return nil, fmt.Errorf("parsing validator rules: %w", err)
	}
	rules.Raw = raw
	return rules, nil
}
