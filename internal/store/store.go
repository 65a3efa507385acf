package store

import (
	"context"
	"fmt"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
)

// KeyValueStore holds opaque values under string keys. Get returns nil
// without an error when the key does not exist.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Backend is a KeyValueStore that owns resources.
type Backend interface {
	KeyValueStore
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendS3       = "s3"
)

// Open creates the backend selected by cfg.FavoritesBackend.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.FavoritesBackend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresURL)
	case BackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.DynamoEndpoint)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return NewDynamoStore(client, cfg.DynamoTable, nil), nil
	case BackendS3:
		client, err := NewS3Client(ctx, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unknown key-value backend %q", cfg.FavoritesBackend)
	}
}
