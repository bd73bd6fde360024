package runtime

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParameterResolver orchestrates the three sub-resolutions. Caller-supplied
// values win over config defaults, which win over fetched values.
type ParameterResolver struct {
	cfg      Config
	versions *VersionResolver
	styles   *StyleResolver
	rules    *RuleResolver
	log      *zap.Logger
}

// NewParameterResolver wires the sub-resolvers to the shared cache and
// fetch capability from cfg.
func NewParameterResolver(cfg Config) *ParameterResolver {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	versions := NewVersionResolver(cfg.Cache, cfg.RuntimeVersion, log)
	return &ParameterResolver{
		cfg:      cfg,
		versions: versions,
		styles:   NewStyleResolver(cfg.Cache, cfg.Fetch, versions, log),
		rules:    NewRuleResolver(cfg.Cache, cfg.Rules),
		log:      log,
	}
}

// Resolve produces a best-effort RuntimeParameters record. Each field is
// resolved independently; a failed resolution is logged and leaves its
// field at the zero value without disturbing the others. Resolve itself
// never fails.
func (p *ParameterResolver) Resolve(ctx context.Context, custom RuntimeParameters) RuntimeParameters {
	log := p.log.With(zap.String("resolveId", uuid.NewString()))

	params := custom
	params.Verbose = custom.Verbose || p.cfg.Verbose
	params.LTS = custom.LTS || p.cfg.LTS
	params.RTV = custom.RTV || p.cfg.RTV

	if params.ValidatorRules == nil {
		if p.cfg.ValidatorRules != nil {
			params.ValidatorRules = p.cfg.ValidatorRules
		} else {
			rules, err := p.rules.ResolveRules(ctx)
			if err != nil {
				log.Error("could not fetch validator rules", zap.Error(err))
			} else {
				params.ValidatorRules = rules
			}
		}
	}

	if params.AmpRuntimeVersion == "" {
		version, err := p.versions.ResolveVersion(ctx, params.AmpURLPrefix, params.LTS)
		if err != nil {
			log.Error("could not fetch runtime version",
				zap.String("ampUrlPrefix", params.AmpURLPrefix), zap.Error(err))
		} else {
			params.AmpRuntimeVersion = version
		}
	}

	if params.AmpRuntimeStyles == "" {
		styles, err := p.styles.ResolveStyles(ctx, params.AmpURLPrefix, params.LTS, params.AmpRuntimeVersion)
		if err != nil {
			log.Error("could not fetch runtime styles",
				zap.String("ampUrlPrefix", params.AmpURLPrefix),
				zap.String("ampRuntimeVersion", params.AmpRuntimeVersion),
				zap.Error(err))
		} else {
			params.AmpRuntimeStyles = styles
		}
	}

	return params
}
