package commands

import (
	"context"
	"fmt"

	"github.com/paramedit/paramedit/internal/config"
	"github.com/paramedit/paramedit/internal/host"
	"github.com/paramedit/paramedit/internal/host/memhost"
	"github.com/paramedit/paramedit/internal/host/remote"
	"github.com/paramedit/paramedit/internal/storage"
)

// openHost connects to the configured parameter host: the bundled in-process
// host backed by the document store, or a remote bridge.
func openHost(ctx context.Context) (host.Host, error) {
	kind := "memory"
	if cfg.Host != nil && cfg.Host.Kind != "" {
		kind = cfg.Host.Kind
	}

	switch kind {
	case "memory":
		paths := config.GetPaths()
		if err := paths.EnsurePaths(); err != nil {
			return nil, err
		}
		store := storage.New(paths.DocumentsPath())
		return memhost.Open(ctx, store, cfg.Document)
	case "remote":
		if cfg.Host == nil || cfg.Host.URL == "" {
			return nil, fmt.Errorf("remote host selected but no URL configured")
		}
		h := remote.New(cfg.Host.URL)
		if err := h.Connect(ctx); err != nil {
			return nil, err
		}
		return h, nil
	}
	return nil, fmt.Errorf("unknown host kind %q", kind)
}
