package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *StaticRegistry {
	return NewStaticRegistry([]RegistryEntry{
		{Identity: "0xSUPER", Role: RoleSuperAdmin, LocationScope: ScopeAll, DisplayName: "Cuc CSGT"},
		{Identity: "0xHanoi", Role: RoleRegionalAdmin, LocationScope: ScopeHanoi, DisplayName: "PC08 Ha Noi"},
		{Identity: "0xview", Role: RoleViewer, LocationScope: ScopeAll},
		{Identity: "0xodd", Role: Role("auditor"), LocationScope: ScopeDaNang},
	})
}

func TestCapabilityTable(t *testing.T) {
	t.Parallel()

	expected := map[Role]map[Capability]bool{
		RoleSuperAdmin: {
			CapViewDashboard: true, CapViewLicenses: true, CapEditLicenses: true,
			CapViewVehicles: true, CapEditVehicles: true, CapViewViolations: true,
			CapEditViolations: true, CapViewAuthorities: true, CapEditAuthorities: true,
			CapViewReports: true, CapViewSettings: true, CapEditSettings: true,
		},
		RoleRegionalAdmin: {
			CapViewDashboard: true, CapViewLicenses: true, CapEditLicenses: true,
			CapViewVehicles: true, CapEditVehicles: true, CapViewViolations: true,
			CapEditViolations: true, CapViewReports: true,
		},
		RoleViewer: {
			CapViewDashboard: true, CapViewLicenses: true, CapViewVehicles: true,
			CapViewViolations: true, CapViewAuthorities: true,
		},
		RoleNone: {},
	}

	for role, granted := range expected {
		p := PermissionsFor(role, ScopeAll)
		for _, c := range AllCapabilities {
			assert.Equal(t, granted[c], p.Has(c), "role %s capability %s", role, c)
		}
	}
}

func TestPermissionsFor(t *testing.T) {
	t.Parallel()

	t.Run("unknown role gets viewer set", func(t *testing.T) {
		p := PermissionsFor(Role("auditor"), ScopeHanoi)
		assert.Equal(t, RoleViewer, p.Role())
		assert.Equal(t, ScopeHanoi, p.LocationScope())
		assert.Equal(t, PermissionsFor(RoleViewer, ScopeHanoi), p)
	})

	t.Run("pure", func(t *testing.T) {
		assert.Equal(t, PermissionsFor(RoleRegionalAdmin, ScopeDaNang), PermissionsFor(RoleRegionalAdmin, ScopeDaNang))
	})

	t.Run("can matches has", func(t *testing.T) {
		p := PermissionsFor(RoleRegionalAdmin, ScopeHanoi)
		assert.True(t, p.Can(ResourceLicenses, ActionEdit))
		assert.False(t, p.Can(ResourceAuthorities, ActionView))
		assert.False(t, p.Can(Resource("unknown"), ActionView))
	})

	t.Run("flags cover every capability", func(t *testing.T) {
		flags := PermissionsFor(RoleViewer, ScopeAll).Flags()
		require.Len(t, flags, len(AllCapabilities))
		assert.True(t, flags[CapViewLicenses])
		assert.False(t, flags[CapEditLicenses])
	})

	t.Run("capabilities sorted", func(t *testing.T) {
		caps := PermissionsFor(RoleViewer, ScopeAll).Capabilities()
		assert.Equal(t, []Capability{
			CapViewAuthorities, CapViewDashboard, CapViewLicenses, CapViewVehicles, CapViewViolations,
		}, caps)
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	tests := []struct {
		name      string
		identity  string
		connected bool
		wantRole  Role
		wantScope LocationScope
	}{
		{"not connected", "0xsuper", false, RoleViewer, ScopeAll},
		{"empty identity", "  ", true, RoleViewer, ScopeAll},
		{"super admin", "0xsuper", true, RoleSuperAdmin, ScopeAll},
		{"case insensitive match", "0XHANOI", true, RoleRegionalAdmin, ScopeHanoi},
		{"surrounding whitespace", " 0xhanoi ", true, RoleRegionalAdmin, ScopeHanoi},
		{"unregistered", "0xstranger", true, RoleViewer, ScopeAll},
		{"registered with unknown role", "0xodd", true, RoleViewer, ScopeDaNang},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.identity, tt.connected, reg)
			assert.Equal(t, tt.wantRole, p.Role())
			assert.Equal(t, tt.wantScope, p.LocationScope())
		})
	}
}

func TestResolveWithPolicy(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	t.Run("deny policy refuses unregistered identities", func(t *testing.T) {
		p := ResolveWithPolicy("0xstranger", true, reg, UnknownIdentityDeny)
		assert.Equal(t, RoleNone, p.Role())
		assert.Equal(t, ScopeNone, p.LocationScope())
		assert.Empty(t, p.Capabilities())
	})

	t.Run("deny policy keeps anonymous viewer", func(t *testing.T) {
		p := ResolveWithPolicy("", false, reg, UnknownIdentityDeny)
		assert.Equal(t, AnonymousPermission(), p)
	})

	t.Run("deny policy resolves registered identities", func(t *testing.T) {
		p := ResolveWithPolicy("0xsuper", true, reg, UnknownIdentityDeny)
		assert.Equal(t, RoleSuperAdmin, p.Role())
	})

	t.Run("nil registry", func(t *testing.T) {
		assert.Equal(t, AnonymousPermission(), Resolve("0xsuper", true, nil))
	})

	assert.True(t, UnknownIdentityViewer.IsValid())
	assert.True(t, UnknownIdentityDeny.IsValid())
	assert.False(t, UnknownIdentityPolicy("allow").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleSuperAdmin.IsValid())
	assert.True(t, RoleViewer.IsValid())
	assert.False(t, Role("auditor").IsValid())
}
