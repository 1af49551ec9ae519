package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewProducesValidSortableIDs(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	_, err := Parse(a.String())
	require.NoError(t, err)
	_, err = Parse(b.String())
	require.NoError(t, err)

	// Monotonic entropy guarantees ordering even within the same millisecond.
	require.Less(t, a.String(), b.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "not-a-ulid", "0000"} {
		_, err := Parse(input)
		require.ErrorIs(t, err, ErrInvalid, "input %q", input)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)

	require.Equal(t, at.UnixMilli(), id.Time().UnixMilli())
}

func TestZeroID(t *testing.T) {
	t.Parallel()

	require.True(t, Zero.IsZero())
	require.True(t, Zero.Time().IsZero())
	require.False(t, New().IsZero())
}
