package scheduler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_MarkSeen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch_state.json")

	st, err := NewStateStore(path, "fury")
	require.NoError(t, err)

	fresh, err := st.MarkSeen(map[string]string{
		"binance|2024-03-01": "SURGE",
		"okx|2024-03-01":     "SURGE",
	})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	// Same events again: nothing new.
	fresh, err = st.MarkSeen(map[string]string{
		"binance|2024-03-01": "SURGE",
	})
	require.NoError(t, err)
	assert.Empty(t, fresh)

	// State survives a reload.
	st2, err := NewStateStore(path, "fury")
	require.NoError(t, err)
	fresh, err = st2.MarkSeen(map[string]string{
		"binance|2024-03-01": "SURGE",
		"binance|2024-04-01": "SURGE",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"binance|2024-04-01"}, fresh)
}

func TestStateStore_TickerChangeResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch_state.json")

	st, err := NewStateStore(path, "fury")
	require.NoError(t, err)
	_, err = st.MarkSeen(map[string]string{"binance|2024-03-01": "SURGE"})
	require.NoError(t, err)

	st2, err := NewStateStore(path, "btc")
	require.NoError(t, err)
	fresh, err := st2.MarkSeen(map[string]string{"binance|2024-03-01": "SURGE"})
	require.NoError(t, err)
	assert.Len(t, fresh, 1, "state for a different ticker must start clean")
}
