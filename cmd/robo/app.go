package main

import (
	"github.com/yash-755/robo/internal/composer"
	"github.com/yash-755/robo/internal/config"
	"github.com/yash-755/robo/internal/content"
	"github.com/yash-755/robo/internal/gateway"
	"github.com/yash-755/robo/internal/policy"
	"github.com/yash-755/robo/internal/responder"
	"github.com/yash-755/robo/internal/upstream"
	"github.com/yash-755/robo/pkg/logx"
)

// app wires the read-only core shared by every command.
type app struct {
	cfg       config.Config
	store     *content.Store
	policy    policy.Policy
	compiler  *composer.Compiler
	responder *responder.Responder
	gateway   *gateway.Gateway
	upstream  *upstream.Client // nil without GROK_API_KEY
}

func newApp(cfg config.Config) (*app, error) {
	store, err := content.Load(cfg.Context.ContentFile)
	if err != nil {
		return nil, err
	}

	counter, err := composer.NewTokenCounter(cfg.Context.Tokenizer)
	if err != nil {
		logx.Warn().Err(err).Str("tokenizer", cfg.Context.Tokenizer).Msg("falling back to heuristic token counter")
		counter = composer.HeuristicCounter{}
	}

	pol := policy.New(store.Profile())
	a := &app{
		cfg:       cfg,
		store:     store,
		policy:    pol,
		compiler:  composer.NewCompiler(store, cfg.Context.MaxTokens, counter),
		responder: responder.New(store, pol),
	}

	var completer gateway.Completer
	if cfg.Upstream.APIKey != "" {
		a.upstream = upstream.NewClient(upstream.Options{
			APIKey:      cfg.Upstream.APIKey,
			BaseURL:     cfg.Upstream.BaseURL,
			Model:       cfg.Upstream.Model,
			Temperature: cfg.Upstream.Temperature,
			MaxTokens:   cfg.Upstream.MaxTokens,
			Timeout:     cfg.Upstream.Timeout,
		})
		completer = a.upstream
	}
	a.gateway = gateway.New(store, a.compiler, pol, completer)
	return a, nil
}

func (a *app) contextText() string {
	return a.compiler.Compile().Text
}
