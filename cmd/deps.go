package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/config"
	"github.com/thinxi/thinxi-admin/internal/docstore"
	"github.com/thinxi/thinxi-admin/internal/llm"
	"github.com/thinxi/thinxi-admin/internal/questions"
	"github.com/thinxi/thinxi-admin/internal/store"
)

// backend bundles the stores a command works against.
type backend struct {
	local *store.Store
	docs  docstore.Store
}

func (b *backend) Close() {
	if b.docs != nil {
		if err := b.docs.Close(); err != nil {
			log.Warn("close document store", zap.Error(err))
		}
	}
	if b.local != nil {
		_ = b.local.Close()
	}
}

// openLocal opens the SQLite database. It always holds the LLM request
// log and, with the sqlite backend, the documents too.
func openLocal(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openBackend opens the local database and the configured document store.
func openBackend(cmd *cobra.Command) (*backend, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	local, err := openLocal(cmd)
	if err != nil {
		return nil, err
	}
	b := &backend{local: local}

	switch settings.Store.Backend {
	case config.BackendSQLite:
		b.docs = local.Documents()
	case config.BackendFirestore:
		fs, err := docstore.OpenFirestore(cmd.Context(), settings.Firestore)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.docs = fs
	}
	return b, nil
}

func (b *backend) questions() *questions.Service {
	return questions.NewService(b.docs, log,
		questions.WithCollection(settings.Collections.Questions),
		questions.WithTimeout(settings.Store.Timeout),
	)
}

// provider builds the configured text model client with request logging
// and retries.
func (b *backend) provider(ctx context.Context) (llm.Provider, error) {
	if err := settings.LLM.Validate(); err != nil {
		return nil, err
	}
	p, err := llm.NewProvider(ctx, settings.LLM, b.local.EventRepo(), log)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", settings.LLM.Provider, err)
	}
	return p, nil
}
