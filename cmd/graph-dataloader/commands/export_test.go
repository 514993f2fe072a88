package commands

import (
	"log/slog"

	"github.com/datacommons/graph-dataloader/internal/gitrepo"
	"github.com/datacommons/graph-dataloader/internal/loader"
	"github.com/datacommons/graph-dataloader/internal/secrets"
)

// WithSecretsStore substitutes the secrets store.
func WithSecretsStore(store secrets.Store) Options {
	return func(o *options) {
		o.secretsStore = store
	}
}

// WithTagResolver substitutes the model tag resolver.
func WithTagResolver(resolver gitrepo.TagResolver) Options {
	return func(o *options) {
		o.tagResolver = resolver
	}
}

// WithNewLoader substitutes the loader constructor.
func WithNewLoader(newLoader func(l *slog.Logger, command string) loader.Loader) Options {
	return func(o *options) {
		o.newLoader = newLoader
	}
}

// SetArgs sets the arguments of the root command.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}
