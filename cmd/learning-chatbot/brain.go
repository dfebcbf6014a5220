// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/internal/store"
)

func openStore() (*store.Store, error) {
	st, err := store.NewStore(cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("opening brain store %s: %w", cfg.Store.Path, err)
	}
	return st, nil
}

// loadEngine restores the named brain. When it does not exist and create is
// set, an empty engine is returned instead.
func loadEngine(ctx context.Context, st *store.Store, name string, create bool) (*brain.Engine, error) {
	opts := []brain.Option{brain.WithLogger(logger.Named("brain"))}

	snap, err := st.Load(ctx, name)
	switch {
	case errors.Is(err, store.ErrBrainNotFound) && create:
		logger.Info("starting new brain", zap.String("brain", name))
		return brain.New(cfg.Engine, opts...)
	case err != nil:
		return nil, err
	}

	e, err := brain.Restore(snap, cfg.Engine, opts...)
	if err != nil {
		return nil, fmt.Errorf("restoring brain %s: %w", name, err)
	}
	return e, nil
}
