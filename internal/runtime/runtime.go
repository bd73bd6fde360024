// Package runtime resolves the runtime parameters (validator rules,
// runtime version, runtime CSS) consumed by the document transformation
// pipeline. Values are taken from the caller when given, from the shared
// cache when fresh enough, and from the network otherwise.
package runtime

import (
	"context"
	"net/http"
	"time"

	"github.com/black007php/amp-toolbox/internal/cache"
	"github.com/black007php/amp-toolbox/internal/validator"
	"go.uber.org/zap"
)

// AmpCacheHost is the canonical origin for the AMP framework. It is the
// fallback whenever a caller-specified prefix is missing or unusable.
const AmpCacheHost = "https://cdn.ampproject.org"

// runtimeCSSPath is the CSS location under a version-qualified prefix.
const runtimeCSSPath = "/v0.css"

// versionMaxAge bounds how long a cached runtime version is served
// without a refresh.
const versionMaxAge = 10 * time.Minute

// Fetcher is the HTTP capability the resolvers consume.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// VersionSource reports the current runtime release of a host.
type VersionSource interface {
	CurrentVersion(ctx context.Context, ampURLPrefix string, lts bool) (string, error)
}

// RuleProvider loads validator rules, either from the network or from
// previously persisted raw bytes.
type RuleProvider interface {
	Fetch(ctx context.Context) (*validator.RuleSet, error)
	FetchFromRaw(raw []byte) (*validator.RuleSet, error)
}

// Config wires the resolver to its collaborators and carries the
// pipeline-level defaults merged into every resolution.
type Config struct {
	Verbose bool
	LTS     bool
	RTV     bool

	// ValidatorRules, when set, short-circuits rule resolution.
	ValidatorRules *validator.RuleSet

	Fetch          Fetcher
	RuntimeVersion VersionSource
	Rules          RuleProvider
	Cache          cache.Store
	Log            *zap.Logger
}

// RuntimeParameters is the resolved parameter record handed to the
// pipeline. Unresolvable fields stay at their zero value; consumers must
// tolerate missing rules, version, or styles.
type RuntimeParameters struct {
	Verbose bool `json:"verbose"`
	LTS     bool `json:"lts"`
	RTV     bool `json:"rtv"`

	ValidatorRules *validator.RuleSet `json:"-"`

	AmpURLPrefix      string `json:"ampUrlPrefix,omitempty"`
	AmpRuntimeVersion string `json:"ampRuntimeVersion,omitempty"`
	AmpRuntimeStyles  string `json:"ampRuntimeStyles,omitempty"`
}
