package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fitcircle/fitcircle-client/pkg/kv"
	kvredis "github.com/fitcircle/fitcircle-client/pkg/kv/redis"
	kvsql "github.com/fitcircle/fitcircle-client/pkg/kv/sql"
	"github.com/fitcircle/fitcircle-client/pkg/lazy"
	"github.com/fitcircle/fitcircle-client/pkg/sql"
)

const (
	StoreKindMemory StoreKind = "memory"
	StoreKindRedis  StoreKind = "redis"
	StoreKindSQL    StoreKind = "sql"

	redisKeyPrefix = "fitcircle"
)

type StoreKind string

var ErrUnknownStoreKind = errors.New("unknown session store kind")

// NewSessionStore builds the backend selected by kind. Backends are loaded only when selected.
// A non-empty encryptionKey seals every stored value.
func NewSessionStore(
	ctx context.Context,
	kind StoreKind,
	encryptionKey []byte,
	db lazy.Loader[sql.Database],
	redisClient lazy.Loader[redis.UniversalClient],
) (kv.Store, error) {
	var store kv.Store
	switch kind {
	case StoreKindMemory, "":
		store = kv.NewMemoryStore()
	case StoreKindRedis:
		client, err := redisClient.Load()
		if err != nil {
			return nil, err
		}
		store = kvredis.NewStore(client, redisKeyPrefix)
	case StoreKindSQL:
		database, err := db.Load()
		if err != nil {
			return nil, err
		}
		if err = kvsql.Migrate(ctx, database); err != nil {
			return nil, fmt.Errorf("migrate session store: %w", err)
		}
		store = kvsql.NewStore(database)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStoreKind, kind)
	}

	if len(encryptionKey) == 0 {
		return store, nil
	}

	return kv.NewEncryptedStore(store, encryptionKey)
}
