package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts_UnmarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	var c Counts

	require.NoError(t, json.Unmarshal([]byte(`{"b": 2, "a": 1, "c": 3}`), &c))

	assert.Equal(t, []string{"b", "a", "c"}, c.Keys())
	assert.Equal(t, []float64{2, 1, 3}, c.Floats())
	assert.Equal(t, 6, c.Total())
	assert.Equal(t, 3, c.Len())
}

func TestCounts_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	t.Parallel()

	var c Counts

	require.NoError(t, json.Unmarshal([]byte(`{"x": 1, "y": 2, "x": 5}`), &c))

	assert.Equal(t, []Entry{{Key: "x", Count: 5}, {Key: "y", Count: 2}}, c.Entries())
}

func TestCounts_AcceptsWholeFloat(t *testing.T) {
	t.Parallel()

	var c Counts

	require.NoError(t, json.Unmarshal([]byte(`{"x": 4.0}`), &c))

	v, ok := c.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestCounts_RejectsBadValues(t *testing.T) {
	t.Parallel()

	var c Counts

	err := json.Unmarshal([]byte(`{"x": -3}`), &c)
	require.ErrorIs(t, err, ErrNegativeCount)

	err = json.Unmarshal([]byte(`{"x": 2.5}`), &c)
	require.ErrorIs(t, err, ErrNotInteger)

	err = json.Unmarshal([]byte(`[1, 2]`), &c)
	require.ErrorIs(t, err, ErrMalformed)

	err = json.Unmarshal([]byte(`{"x": 1e20}`), &c)
	require.ErrorIs(t, err, ErrCountRange)

	err = json.Unmarshal([]byte(`{"x": 9223372036854775808}`), &c)
	require.ErrorIs(t, err, ErrCountRange)
}

func TestParse_HugeCountIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"statistics": {
		"by_year": {"2020": 1e20},
		"by_domain": {"a": 1},
		"by_language": {"Go": 1},
		"by_scale": {"mega": 1, "large": 1, "medium": 1, "small": 1}
	}}`))

	require.ErrorIs(t, err, ErrMalformed)
	require.ErrorIs(t, err, ErrCountRange)
}

func TestCounts_KeysIsACopy(t *testing.T) {
	t.Parallel()

	c := NewCounts(Entry{Key: "a", Count: 1})
	keys := c.Keys()
	keys[0] = "mutated"

	assert.Equal(t, []string{"a"}, c.Keys())
}

func TestCounts_ZeroValue(t *testing.T) {
	t.Parallel()

	var c Counts

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Total())
	assert.Empty(t, c.Values())
}
