package runtime

import (
	"context"

	"github.com/black007php/amp-toolbox/internal/cache"
	"github.com/black007php/amp-toolbox/internal/validator"
)

// validatorRulesKey is the fixed cache key for the validator rule set.
// The entry carries no max-age stamp and never expires.
const validatorRulesKey = "validator-rules"

// RuleResolver loads the validator rule set, persisting the raw JSON form
// rather than the parsed object. Parsed rules do not round-trip through
// the cache format; the provider rehydrates them from raw bytes cheaply.
type RuleResolver struct {
	cache    cache.Store
	provider RuleProvider
}

// NewRuleResolver creates a RuleResolver.
func NewRuleResolver(store cache.Store, provider RuleProvider) *RuleResolver {
	return &RuleResolver{cache: store, provider: provider}
}

// ResolveRules returns the validator rule set, from cache when possible.
func (r *RuleResolver) ResolveRules(ctx context.Context) (*validator.RuleSet, error) {
	if raw, ok := r.cache.Get(ctx, validatorRulesKey); ok {
		rules, err := r.provider.FetchFromRaw(raw)
		if err == nil {
			return rules, nil
		}
		// corrupt cached rules: fall through to a full fetch
	}

	rules, err := r.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, validatorRulesKey, rules.Raw)
	return rules, nil
}
