package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/trafficadmin/internal/domain"
)

const sampleYAML = `
regions:
  quang_ninh: ["Quảng Ninh", "Quang Ninh"]
identities:
  - identity: "0xABCDEF"
    role: regional_admin
    location_scope: quang_ninh
    display_name: PC08 Quảng Ninh
  - identity: "0x123456"
    role: super_admin
    location_scope: all
`

func TestLoadDefault(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, len(DefaultEntries()), loaded.Registry.Len())
	assert.True(t, loaded.Catalog.IsKnown(domain.ScopeHanoi))

	entry, ok := loaded.Registry.Lookup("0x2222222222222222222222222222222222222222")
	require.True(t, ok)
	assert.Equal(t, domain.ScopeHanoi, entry.LocationScope)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.Registry.Len())
	assert.True(t, loaded.Catalog.IsKnown("quang_ninh"))
	assert.True(t, loaded.Catalog.IsKnown(domain.ScopeCanTho), "defaults are kept")

	entry, ok := loaded.Registry.Lookup("0xabcdef")
	require.True(t, ok)
	assert.Equal(t, domain.RoleRegionalAdmin, entry.Role)

	perm := domain.Resolve("0xabcdef", true, loaded.Registry)
	assert.Equal(t, domain.LocationScope("quang_ninh"), perm.LocationScope())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "identities: [oops"},
		{"unknown role", "identities:\n  - identity: 0x1\n    role: root\n    location_scope: all\n"},
		{"unknown scope", "identities:\n  - identity: 0x1\n    role: viewer\n    location_scope: atlantis\n"},
		{"empty identity", "identities:\n  - identity: '  '\n    role: viewer\n    location_scope: all\n"},
		{"reserved region", "regions:\n  all: [Everywhere]\n"},
		{"region without cities", "regions:\n  hue: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseRegionsOnlyKeepsDefaultIdentities(t *testing.T) {
	loaded, err := Parse([]byte("regions:\n  hue: [\"Huế\", \"Hue\"]\n"))
	require.NoError(t, err)

	assert.Equal(t, len(DefaultEntries()), loaded.Registry.Len())
	assert.True(t, loaded.Catalog.IsKnown("hue"))
}
