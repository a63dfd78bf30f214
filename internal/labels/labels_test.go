package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBuiltin(t *testing.T) {
	store := NewStore()

	label, ok := store.Lookup("5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9")
	require.True(t, ok)
	assert.Equal(t, "Binance Hot Wallet", label.Name)
	assert.Equal(t, "exchange", label.Type)
}

func TestLookupUnknown(t *testing.T) {
	store := NewStore()

	_, ok := store.Lookup("unknown_address_xyz")
	assert.False(t, ok, "unknown addresses must miss, not return a zero label")
}

func TestLookupMany(t *testing.T) {
	store := NewStore()

	got := store.LookupMany([]string{
		"wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb",
		"not_a_known_address",
		"Stake11111111111111111111111111111111111111",
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Wormhole Bridge", got["wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"].Name)
	assert.NotContains(t, got, "not_a_known_address")
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	overlay := `labels:
  myCustomAddr111:
    name: Internal Treasury
    type: exchange
    description: Our own hot wallet
  5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9:
    name: Binance Override
    type: exchange
  badEntryNoName:
    type: exchange
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	store := NewStore()
	before := store.Len()
	require.NoError(t, store.LoadOverlay(path))

	custom, ok := store.Lookup("myCustomAddr111")
	require.True(t, ok)
	assert.Equal(t, "Internal Treasury", custom.Name)
	assert.Equal(t, "Our own hot wallet", custom.Description)

	// Overlay entries replace built-ins for the same address.
	overridden, ok := store.Lookup("5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9")
	require.True(t, ok)
	assert.Equal(t, "Binance Override", overridden.Name)

	// Entries without a name are dropped, so only one new address landed.
	_, ok = store.Lookup("badEntryNoName")
	assert.False(t, ok)
	assert.Equal(t, before+1, store.Len())
}

func TestLoadOverlayMissingFile(t *testing.T) {
	store := NewStore()
	assert.Error(t, store.LoadOverlay(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadOverlayMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels: [not, a, map"), 0o644))

	store := NewStore()
	assert.Error(t, store.LoadOverlay(path))
}
