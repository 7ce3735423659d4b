package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"finclusion/internal/client/api"
	"finclusion/internal/client/localstore"
	"finclusion/internal/client/state"
)

const defaultStorePath = "$HOME/.local/share/finclient/finclient.db"

var envKeyReplacer = strings.NewReplacer(".", "_")

// session is one command's view of the client: the on-disk storage, the
// API client and a mounted Store.
type session struct {
	db     *localstore.SQLiteStore
	client *api.Client
	store  *state.Store
}

// openSession mounts the store. With reconcile set, the profile is also
// reconciled against the server, as on app start.
func openSession(ctx context.Context, reconcile bool) (*session, error) {
	path := viper.GetString("store.path")
	if path == "" {
		path = defaultStorePath
	}

	db, err := localstore.Open(expandPath(path))
	if err != nil {
		return nil, err
	}

	client := api.New(viper.GetString("api.url"), db.Local())
	store := state.NewStore(db.Local(), db.Session(), client, state.WithLogger(slog.Default()))

	if err := store.Mount(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load local state: %w", err)
	}
	if reconcile {
		if err := store.ReconcileProfile(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reconcile profile: %w", err)
		}
	}

	return &session{db: db, client: client, store: store}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("failed to close local store", "error", err)
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func signedAmount(amount float64, incoming bool) string {
	if incoming {
		return "+" + state.FormatAmount(amount)
	}
	return "-" + state.FormatAmount(amount)
}
