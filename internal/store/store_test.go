package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		want    interface{}
		wantErr bool
	}{
		{
			name: "memory by default",
			cfg:  config.New(),
			want: &MemoryStore{},
		},
		{
			name: "sqlite",
			cfg: func() *config.Config {
				c := config.New(config.WithFavoritesBackend(BackendSQLite))
				c.SQLitePath = filepath.Join(t.TempDir(), "kv.db")
				return c
			}(),
			want: &SQLiteStore{},
		},
		{
			name:    "postgres without url",
			cfg:     config.New(config.WithFavoritesBackend(BackendPostgres)),
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     config.New(config.WithFavoritesBackend("etcd")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend, err := Open(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer backend.Close()
			assert.IsType(t, tt.want, backend)
		})
	}
}
