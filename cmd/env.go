package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/cache"
	"github.com/sells-group/enrich-cli/internal/candidates"
	"github.com/sells-group/enrich-cli/internal/discover"
	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/fetcher"
	"github.com/sells-group/enrich-cli/internal/match"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/internal/waterfall"
	"github.com/sells-group/enrich-cli/pkg/hunter"
	"github.com/sells-group/enrich-cli/pkg/opencorp"
	"github.com/sells-group/enrich-cli/pkg/places"
	"github.com/sells-group/enrich-cli/pkg/serp"
	"github.com/sells-group/enrich-cli/pkg/snov"
	"github.com/sells-group/enrich-cli/pkg/yelp"
)

// env bundles the wired enrichment stack for a command invocation.
type env struct {
	runner *enrich.Runner
	cache  cache.Cache
	health *resilience.HealthTracker
}

func (e *env) Close() {
	if err := e.cache.Close(); err != nil {
		zap.L().Warn("cache close failed", zap.Error(err))
	}
}

// initLimiters builds the shared per-provider rate budget. All workers wait
// on the same limiters; provider limits are account-wide, not per-unit.
func initLimiters() *resilience.LimiterRegistry {
	reg := resilience.NewLimiterRegistry(1, 1)
	set := func(name string, r float64, burst int) {
		if r <= 0 {
			r = 1
		}
		if burst <= 0 {
			burst = 1
		}
		reg.Set(name, rate.Limit(r), burst)
	}
	set("places", cfg.Places.Rate, cfg.Places.Burst)
	set("directory", cfg.Yelp.Rate, cfg.Yelp.Burst)
	set("serp", cfg.Serp.Rate, cfg.Serp.Burst)
	set("hunter", cfg.Hunter.Rate, cfg.Hunter.Burst)
	set("snov", cfg.Snov.Rate, cfg.Snov.Burst)
	set("opencorp", cfg.OpenCorp.Rate, cfg.OpenCorp.Burst)
	return reg
}

// initCache opens the configured cache backend.
func initCache(ctx context.Context) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(), nil
	case "sqlite":
		return cache.NewSQLite(cfg.Cache.Path)
	case "postgres":
		return cache.NewPostgres(ctx, cfg.Cache.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// initEnv wires providers, waterfalls, and the orchestrator from config.
func initEnv(ctx context.Context) (*env, error) {
	if err := cfg.Validate("enrich"); err != nil {
		return nil, err
	}

	c, err := initCache(ctx)
	if err != nil {
		return nil, err
	}

	limiters := initLimiters()
	pages := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		HostRate:  rate.Limit(cfg.Fetch.HostRate),
		HostBurst: cfg.Fetch.HostBurst,
	})

	placesClient := places.NewClient(cfg.Places.Key,
		places.WithBaseURL(cfg.Places.BaseURL),
		places.WithLimiter(limiters.Limiter("places")))

	provs := []candidates.Provider{candidates.NewPlacesProvider(placesClient)}
	if cfg.Yelp.Key != "" {
		yelpClient := yelp.NewClient(cfg.Yelp.Key,
			yelp.WithBaseURL(cfg.Yelp.BaseURL),
			yelp.WithLimiter(limiters.Limiter("directory")))
		provs = append(provs, candidates.NewDirectoryProvider(yelpClient))
	}

	var search serp.Client
	if cfg.Serp.Key != "" {
		search = serp.NewClient(cfg.Serp.Key,
			serp.WithBaseURL(cfg.Serp.BaseURL),
			serp.WithLimiter(limiters.Limiter("serp")))
	}

	var emailProviders []waterfall.EmailProvider
	if cfg.Hunter.Key != "" {
		hunterClient := hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithLimiter(limiters.Limiter("hunter")))
		emailProviders = append(emailProviders, waterfall.NewHunterProvider(hunterClient))
	}
	if cfg.Snov.ClientID != "" {
		snovClient := snov.NewClient(cfg.Snov.ClientID, cfg.Snov.ClientSecret,
			snov.WithBaseURL(cfg.Snov.BaseURL),
			snov.WithLimiter(limiters.Limiter("snov")))
		emailProviders = append(emailProviders, waterfall.NewSnovProvider(snovClient))
	}

	var registry opencorp.Client
	if cfg.OpenCorp.Key != "" {
		registry = opencorp.NewClient(cfg.OpenCorp.Key,
			opencorp.WithBaseURL(cfg.OpenCorp.BaseURL),
			opencorp.WithLimiter(limiters.Limiter("opencorp")))
	}

	wfConfig := waterfall.DefaultConfig()
	if cfg.Waterfall.ConfigPath != "" {
		loaded, loadErr := waterfall.LoadConfig(cfg.Waterfall.ConfigPath)
		if loadErr != nil {
			return nil, loadErr
		}
		wfConfig = loaded
	}

	health := resilience.NewHealthTracker(cfg.Enrich.FailureThreshold)
	orch := enrich.New(
		provs,
		match.NewMatcher(nil),
		discover.New(search, pages, cfg.Discovery.PageLimit),
		waterfall.NewPhoneWaterfall(pages, wfConfig.Phone),
		waterfall.NewEmailWaterfall(emailProviders, pages, wfConfig.Email),
		registry,
		c,
		health,
	)

	return &env{
		runner: enrich.NewRunner(orch, cfg.Enrich.Workers),
		cache:  c,
		health: health,
	}, nil
}
