package sql_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-client/pkg/kv"
	kvsql "github.com/fitcircle/fitcircle-client/pkg/kv/sql"
	pkgsql "github.com/fitcircle/fitcircle-client/pkg/sql"
)

type execCall struct {
	query string
	args  []any
}

type dbStub struct {
	execs      []execCall
	getValue   *string
	getErr     error
	execErr    error
	committed  int
	rolledBack int
}

func (d *dbStub) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	d.execs = append(d.execs, execCall{query: query, args: args})
	return nil, d.execErr
}

func (d *dbStub) GetContext(_ context.Context, dest any, _ string, _ ...any) error {
	if d.getErr != nil {
		return d.getErr
	}
	if d.getValue == nil {
		return sql.ErrNoRows
	}
	*(dest.(*string)) = *d.getValue
	return nil
}

func (d *dbStub) SelectContext(context.Context, any, string, ...any) error {
	return nil
}

func (d *dbStub) Begin(context.Context) (pkgsql.ClientTx, error) {
	return txStub{d}, nil
}

type txStub struct {
	*dbStub
}

func (t txStub) Commit() error {
	t.committed++
	return nil
}

func (t txStub) Rollback() error {
	t.rolledBack++
	return nil
}

func TestStore_SetMany_UpsertsWithinTx(t *testing.T) {
	db := &dbStub{}
	store := kvsql.NewStore(db)

	err := store.SetMany(context.Background(), map[string]string{"access": "a"})
	require.NoError(t, err)

	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].query, "INSERT INTO key_value (key,value) VALUES ($1,$2)")
	assert.Contains(t, db.execs[0].query, "ON CONFLICT (key) DO UPDATE")
	assert.Equal(t, []any{"access", "a"}, db.execs[0].args)
	assert.Equal(t, 1, db.committed)
}

func TestStore_SetMany_ExecFails_RolledBack(t *testing.T) {
	db := &dbStub{execErr: errors.New("connection reset")}
	store := kvsql.NewStore(db)

	err := store.SetMany(context.Background(), map[string]string{"access": "a"})
	assert.ErrorIs(t, err, kv.ErrStoreUnavailable)
	assert.Equal(t, 1, db.rolledBack)
	assert.Zero(t, db.committed)
}

func TestStore_Get_Returns(t *testing.T) {
	value := "token"
	tests := []struct {
		name   string
		db     *dbStub
		expect func(t *testing.T, v string, found bool, err error)
	}{
		{
			name: "found",
			db:   &dbStub{getValue: &value},
			expect: func(t *testing.T, v string, found bool, err error) {
				assert.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "token", v)
			},
		},
		{
			name: "not_found_when_no_rows",
			db:   &dbStub{},
			expect: func(t *testing.T, _ string, found bool, err error) {
				assert.NoError(t, err)
				assert.False(t, found)
			},
		},
		{
			name: "error_when_db_fails",
			db:   &dbStub{getErr: errors.New("timeout")},
			expect: func(t *testing.T, _ string, _ bool, err error) {
				assert.ErrorIs(t, err, kv.ErrStoreUnavailable)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, found, err := kvsql.NewStore(tc.db).Get(context.Background(), "access")
			tc.expect(t, v, found, err)
		})
	}
}

func TestStore_RemoveMany_DeletesAllKeys(t *testing.T) {
	db := &dbStub{}
	store := kvsql.NewStore(db)

	require.NoError(t, store.RemoveMany(context.Background(), "access", "refresh", "user"))

	require.Len(t, db.execs, 1)
	assert.Equal(t, "DELETE FROM key_value WHERE key IN ($1,$2,$3)", db.execs[0].query)
	assert.Equal(t, []any{"access", "refresh", "user"}, db.execs[0].args)
}

func TestMigrate_CreatesTable(t *testing.T) {
	db := &dbStub{}

	require.NoError(t, kvsql.Migrate(context.Background(), db))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].query, "CREATE TABLE IF NOT EXISTS key_value")
}
