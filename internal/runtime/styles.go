package runtime

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/black007php/amp-toolbox/internal/cache"
	"go.uber.org/zap"
)

// StyleResolver downloads the runtime CSS matching a resolved runtime
// version. CSS for a fixed version URL never changes, so downloads are
// cached without expiry. A failed download falls back to the canonical
// host at the latest version, exactly once.
type StyleResolver struct {
	cache    cache.Store
	fetch    Fetcher
	versions *VersionResolver
	log      *zap.Logger
}

// NewStyleResolver creates a StyleResolver. The version resolver covers
// the fallback paths that need a current version.
func NewStyleResolver(store cache.Store, fetch Fetcher, versions *VersionResolver, log *zap.Logger) *StyleResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &StyleResolver{
		cache:    store,
		fetch:    fetch,
		versions: versions,
		log:      log,
	}
}

// ResolveStyles returns the runtime CSS for the prefix/version pair. When
// the download yields nothing and either argument was caller-supplied, the
// resolution is retried once against the canonical host at the current
// version; after that the terminal fallback is the empty string.
func (r *StyleResolver) ResolveStyles(ctx context.Context, ampURLPrefix string, lts bool, ampRuntimeVersion string) (string, error) {
	styles, ok, err := r.attempt(ctx, ampURLPrefix, lts, ampRuntimeVersion)
	if err != nil {
		return "", err
	}
	if ok {
		return styles, nil
	}

	r.log.Error("could not fetch runtime styles, falling back to latest",
		zap.String("ampUrlPrefix", ampURLPrefix),
		zap.String("ampRuntimeVersion", ampRuntimeVersion))

	if ampURLPrefix == "" && ampRuntimeVersion == "" {
		// already the canonical default path, nothing left to try
		return "", nil
	}

	latest, err := r.versions.ResolveVersion(ctx, AmpCacheHost, false)
	if err != nil {
		return "", err
	}
	styles, ok, err = r.attempt(ctx, AmpCacheHost, false, latest)
	if err != nil || !ok {
		return "", err
	}
	return styles, nil
}

// attempt builds the runtime CSS URL and downloads it through the cache.
// ok reports whether any content was obtained; a non-success response is
// not an error, it just yields no content.
func (r *StyleResolver) attempt(ctx context.Context, ampURLPrefix string, lts bool, ampRuntimeVersion string) (string, bool, error) {
	if ampURLPrefix != "" && !isAbsoluteURL(ampURLPrefix) {
		r.log.Warn("runtime styles cannot be fetched from a non-absolute ampUrlPrefix, using the default host",
			zap.String("ampUrlPrefix", ampURLPrefix))
		ampURLPrefix = AmpCacheHost
		if ampRuntimeVersion == "" {
			version, err := r.versions.ResolveVersion(ctx, ampURLPrefix, lts)
			if err != nil {
				return "", false, err
			}
			ampRuntimeVersion = version
		}
	}
	if ampURLPrefix == "" {
		ampURLPrefix = AmpCacheHost
	}

	cssURL := strings.TrimSuffix(ampURLPrefix, "/") + "/rtv/" + ampRuntimeVersion + runtimeCSSPath
	return r.download(ctx, cssURL)
}

// download returns the CSS at cssURL, caching it permanently under the
// exact URL so distinct versions and prefixes never collide.
func (r *StyleResolver) download(ctx context.Context, cssURL string) (string, bool, error) {
	if raw, ok := r.cache.Get(ctx, cssURL); ok {
		return string(raw), true, nil
	}

	resp, err := r.fetch.Get(ctx, cssURL)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	r.cache.Set(ctx, cssURL, body)
	return string(body), true, nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}
