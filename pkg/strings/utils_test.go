package strings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-client/pkg/strings"
)

func TestParseTypedValue_Values_Parsed(t *testing.T) {
	d, err := strings.ParseTypedValue[time.Duration]("5m")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	i, err := strings.ParseTypedValue[int]("42")
	require.NoError(t, err)
	assert.Equal(t, 42, i)

	b, err := strings.ParseTypedValue[[]byte]("0a0b")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x0b}, b)

	ts, err := strings.ParseTypedValue[time.Time]("1700000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Unix())
}

func TestParseTypedValue_Pointer_Parsed(t *testing.T) {
	d, err := strings.ParseTypedValue[*time.Duration]("30s")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 30*time.Second, *d)
}

func TestParseTypedValue_Invalid_ReturnsError(t *testing.T) {
	_, err := strings.ParseTypedValue[int]("abc")
	assert.Error(t, err)

	_, err = strings.ParseTypedValue[time.Time]("-5")
	assert.Error(t, err)
}

func TestToScreamingSnakeCase(t *testing.T) {
	assert.Equal(t, "AUTH_SERVICE", strings.ToScreamingSnakeCase("authService"))
	assert.Equal(t, "FITCIRCLE", strings.ToScreamingSnakeCase("fitcircle"))
}
