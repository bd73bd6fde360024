package runtime

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/black007php/amp-toolbox/internal/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// versionRecord is the persisted shape of a resolved runtime version.
// MaxAge is the unix second after which the record counts as stale.
type versionRecord struct {
	Version string `json:"version"`
	MaxAge  int64  `json:"maxAge"`
}

// VersionResolver resolves the current runtime version for a host,
// serving cached values while fresh and refreshing stale ones in the
// background. A stale record is still answered synchronously; only a
// cold cache pays for the network round-trip.
type VersionResolver struct {
	cache  cache.Store
	source VersionSource
	log    *zap.Logger

	// group collapses concurrent fetches of the same cache key.
	group singleflight.Group

	now func() time.Time
}

// NewVersionResolver creates a VersionResolver.
func NewVersionResolver(store cache.Store, source VersionSource, log *zap.Logger) *VersionResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &VersionResolver{
		cache:  store,
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// ResolveVersion returns the runtime version for the prefix/lts pair.
func (r *VersionResolver) ResolveVersion(ctx context.Context, ampURLPrefix string, lts bool) (string, error) {
	key := versionKey(ampURLPrefix, lts)

	if raw, ok := r.cache.Get(ctx, key); ok {
		var rec versionRecord
		if err := json.Unmarshal(raw, &rec); err == nil && rec.Version != "" {
			if r.now().Unix() <= rec.MaxAge {
				return rec.Version, nil
			}
			go r.refresh(key, ampURLPrefix, lts)
			return rec.Version, nil
		}
		// undecodable record: treat as a miss
	}

	return r.fetchAndStore(ctx, key, ampURLPrefix, lts)
}

// fetchAndStore asks the version source for the current release and
// persists it with a fresh max-age stamp. Concurrent calls for one key
// share a single fetch.
func (r *VersionResolver) fetchAndStore(ctx context.Context, key, ampURLPrefix string, lts bool) (string, error) {
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		version, err := r.source.CurrentVersion(ctx, ampURLPrefix, lts)
		if err != nil {
			return nil, err
		}
		rec := versionRecord{
			Version: version,
			MaxAge:  r.now().Add(versionMaxAge).Unix(),
		}
		if raw, err := json.Marshal(rec); err == nil {
			r.cache.Set(ctx, key, raw)
		}
		return version, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh re-fetches a stale record. It runs detached from the caller
// that observed the staleness; its failure is logged and goes no further.
func (r *VersionResolver) refresh(key, ampURLPrefix string, lts bool) {
	if _, err := r.fetchAndStore(context.Background(), key, ampURLPrefix, lts); err != nil {
		r.log.Warn("background runtime version refresh failed",
			zap.String("key", key), zap.Error(err))
	}
}

// versionKey partitions the cache per prefix/lts combination. The empty
// prefix is a valid partition of its own.
func versionKey(ampURLPrefix string, lts bool) string {
	return ampURLPrefix + "-" + strconv.FormatBool(lts)
}
