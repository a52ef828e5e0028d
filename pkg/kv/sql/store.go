package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/fitcircle/fitcircle-client/pkg/kv"
	pkgsql "github.com/fitcircle/fitcircle-client/pkg/sql"
)

const (
	tableName = "key_value"

	tableDDL = `
		CREATE TABLE IF NOT EXISTS key_value (
			key        text PRIMARY KEY,
			value      text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`
)

type store struct {
	db      pkgsql.TxClient
	builder sq.StatementBuilderType
}

func NewStore(db pkgsql.TxClient) kv.Store {
	return &store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func Migrate(ctx context.Context, db pkgsql.Client) error {
	if _, err := db.ExecContext(ctx, tableDDL); err != nil {
		return fmt.Errorf("create %s table: %w", tableName, err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.builder.
		Select("value").
		From(tableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build sql: %w", err)
	}

	var value string
	err = s.db.GetContext(ctx, &value, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", kv.ErrStoreUnavailable, key, err)
	}

	return value, true, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	qb := s.builder.
		Insert(tableName).
		Columns("key", "value").
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()")
	for k, v := range entries {
		qb = qb.Values(k, v)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build sql: %w", err)
	}

	err = pkgsql.WithinTx(ctx, s.db, func(tx pkgsql.Client) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: set many: %w", kv.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *store) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := s.builder.
		Delete(tableName).
		Where(sq.Eq{"key": keys}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: remove: %w", kv.ErrStoreUnavailable, err)
	}
	return nil
}
