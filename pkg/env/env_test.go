package env_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-client/pkg/env"
)

func TestParse_Found_ReturnsValue(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "12")

	v, err := env.Parse[int]("TEST_ENV_INT")
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestParse_NotFound_ReturnsError(t *testing.T) {
	_, err := env.Parse[string]("TEST_ENV_MISSING_KEY")
	assert.ErrorIs(t, err, env.ErrNotFound)
}

func TestParseOptional_Empty_ReturnsNil(t *testing.T) {
	t.Setenv("TEST_ENV_DURATION", "")

	v, err := env.ParseOptional[*time.Duration]("TEST_ENV_DURATION")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseOptional_Invalid_ReturnsError(t *testing.T) {
	t.Setenv("TEST_ENV_DURATION", "soon")

	_, err := env.ParseOptional[*time.Duration]("TEST_ENV_DURATION")
	assert.Error(t, err)
}

func TestMust_Error_Panics(t *testing.T) {
	assert.Panics(t, func() {
		env.Must(env.Parse[int]("TEST_ENV_MISSING_KEY"))
	})
}

func TestLoad_DotenvFile_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(filename, []byte("TEST_ENV_FROM_FILE=file\nTEST_ENV_PRESET=file\n"), 0o600))
	t.Setenv("TEST_ENV_PRESET", "process")
	t.Cleanup(func() { _ = os.Unsetenv("TEST_ENV_FROM_FILE") })

	require.NoError(t, env.Load(filename, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "file", os.Getenv("TEST_ENV_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("TEST_ENV_PRESET"))
}
