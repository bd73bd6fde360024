// Command ampparams resolves the AMP runtime parameters once and prints
// them as JSON. It is a diagnostic surface for the resolution pipeline;
// resolution itself never fails, so a non-zero exit only means setup broke.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/black007php/amp-toolbox/internal/cache"
	"github.com/black007php/amp-toolbox/internal/fetch"
	"github.com/black007php/amp-toolbox/internal/logger"
	"github.com/black007php/amp-toolbox/internal/runtime"
	"github.com/black007php/amp-toolbox/internal/runtimeversion"
	"github.com/black007php/amp-toolbox/internal/validator"
)

type config struct {
	Env          string        `env:"APP_ENV"`
	Verbose      bool          `env:"AMP_VERBOSE"`
	LTS          bool          `env:"AMP_LTS"`
	RTV          bool          `env:"AMP_RTV"`
	AmpURLPrefix string        `env:"AMP_URL_PREFIX"`
	CacheDir     string        `env:"AMP_CACHE_DIR"`
	FetchTimeout time.Duration `env:"AMP_FETCH_TIMEOUT" envDefault:"15s"`
}

func main() {
	prefix := flag.String("prefix", "", "AMP framework host to resolve against (overrides AMP_URL_PREFIX)")
	version := flag.String("version", "", "pin the runtime version instead of resolving it")
	noCache := flag.Bool("no-cache", false, "resolve with an in-memory cache only")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse environment: %v\n", err)
		os.Exit(1)
	}
	if *prefix != "" {
		cfg.AmpURLPrefix = *prefix
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var store cache.Store
	if *noCache {
		store = cache.NewMemoryStore()
	} else {
		fileStore, err := cache.NewFileStore(cfg.CacheDir, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize cache: %v\n", err)
			os.Exit(1)
		}
		store = fileStore
	}

	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.FetchTimeout,
		UserAgent: "amp-toolbox-go/1.0 (+https://github.com/black007php/amp-toolbox)",
	})

	resolver := runtime.NewParameterResolver(runtime.Config{
		Verbose:        cfg.Verbose,
		LTS:            cfg.LTS,
		RTV:            cfg.RTV,
		Fetch:          client,
		RuntimeVersion: runtimeversion.NewClient(client),
		Rules:          validator.NewProvider(client),
		Cache:          store,
		Log:            log,
	})

	params := resolver.Resolve(context.Background(), runtime.RuntimeParameters{
		AmpURLPrefix:      cfg.AmpURLPrefix,
		AmpRuntimeVersion: *version,
	})

	out := struct {
		runtime.RuntimeParameters
		ValidatorRevision int `json:"validatorRevision,omitempty"`
		ValidatorTagCount int `json:"validatorTagCount,omitempty"`
	}{RuntimeParameters: params}
	if params.ValidatorRules != nil {
		out.ValidatorRevision = params.ValidatorRules.ValidatorRevision
		out.ValidatorTagCount = len(params.ValidatorRules.Tags)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode parameters: %v\n", err)
		os.Exit(1)
	}
}
