package main

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/crosscheck-ai/crosscheck/internal/config"
	"github.com/crosscheck-ai/crosscheck/internal/fanout"
	"github.com/crosscheck-ai/crosscheck/internal/store"
	"github.com/crosscheck-ai/crosscheck/internal/verify"
	"github.com/crosscheck-ai/crosscheck/pkg/answer"
	"github.com/crosscheck-ai/crosscheck/pkg/brave"
	"github.com/crosscheck-ai/crosscheck/pkg/serpapi"
	"github.com/crosscheck-ai/crosscheck/pkg/tavily"
)

// env wires the verification pipeline, provider fanout, audit store
// and optional answer drafter from configuration.
type env struct {
	Pipeline   *verify.Pipeline
	Dispatcher *fanout.Dispatcher
	Store      store.Store
	Drafter    answer.Drafter
}

// initEnv validates config for the given mode and builds the runtime.
// The store is migrated on open so commands never see a missing table.
func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	opts := verify.DefaultOptions()
	if path := cfg.Verification.OptionsFile; path != "" {
		loaded, err := verify.LoadOptionsFile(path)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	providers := buildProviders(cfg, &opts)
	if len(providers) == 0 {
		return nil, eris.New("no search providers configured")
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	e := &env{
		Pipeline:   verify.New(opts),
		Dispatcher: fanout.New(time.Duration(cfg.Fanout.TimeoutSecs)*time.Second, providers...),
		Store:      st,
	}
	if cfg.Anthropic.Key != "" {
		e.Drafter = answer.NewDrafter(cfg.Anthropic.Key,
			answer.WithModel(cfg.Anthropic.Model),
			answer.WithMaxTokens(int64(cfg.Anthropic.MaxTokens)),
		)
	}

	zap.L().Info("environment ready",
		zap.Int("providers", len(providers)),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("drafter", e.Drafter != nil),
	)
	return e, nil
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}

// buildProviders assembles one fanout Provider per configured key,
// sorted by descending baseline trust so tier-limited dispatch asks
// the most credible backends first.
func buildProviders(cfg *config.Config, opts *verify.Options) []fanout.Provider {
	max := cfg.Fanout.MaxResults
	var providers []fanout.Provider

	if cfg.Brave.Key != "" {
		client := brave.NewClient(cfg.Brave.Key, brave.WithBaseURL(cfg.Brave.BaseURL))
		providers = append(providers, fanout.NewBraveProvider(client, max))
	}
	if cfg.SerpAPI.Key != "" {
		client := serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithEngine(cfg.SerpAPI.Engine),
		)
		providers = append(providers, fanout.NewSerpAPIProvider(client, max))
	}
	if cfg.Tavily.Key != "" {
		client := tavily.NewClient(cfg.Tavily.Key,
			tavily.WithBaseURL(cfg.Tavily.BaseURL),
			tavily.WithDepth(cfg.Tavily.Depth),
		)
		providers = append(providers, fanout.NewTavilyProvider(client, max))
	}

	sort.SliceStable(providers, func(i, j int) bool {
		return opts.TrustWeight(providers[i].Name(), "") > opts.TrustWeight(providers[j].Name(), "")
	})
	return providers
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "none":
		return store.NewNoop(), nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
