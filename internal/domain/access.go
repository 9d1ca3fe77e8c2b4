package domain

import "sort"

// Role represents an administrator's access profile.
type Role string

const (
	// RoleSuperAdmin manages every resource in every location.
	RoleSuperAdmin Role = "super_admin"

	// RoleRegionalAdmin manages licenses, vehicles and violations of one region.
	RoleRegionalAdmin Role = "regional_admin"

	// RoleViewer can only read records.
	RoleViewer Role = "viewer"

	// RoleNone carries no capability at all.
	RoleNone Role = "none"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	_, ok := capabilityTable[r]
	return ok
}

// Resource is a section of the console guarded by capabilities.
type Resource string

const (
	ResourceDashboard   Resource = "dashboard"
	ResourceLicenses    Resource = "licenses"
	ResourceVehicles    Resource = "vehicles"
	ResourceViolations  Resource = "violations"
	ResourceAuthorities Resource = "authorities"
	ResourceReports     Resource = "reports"
	ResourceSettings    Resource = "settings"
)

// Action is what a capability allows on a resource.
type Action string

const (
	ActionView Action = "view"
	ActionEdit Action = "edit"
)

// Capability is a single permission flag, written "<resource>.<action>".
type Capability string

// CapabilityOf builds the capability for a resource/action pair.
func CapabilityOf(resource Resource, action Action) Capability {
	return Capability(string(resource) + "." + string(action))
}

// Known capabilities.
var (
	CapViewDashboard   = CapabilityOf(ResourceDashboard, ActionView)
	CapViewLicenses    = CapabilityOf(ResourceLicenses, ActionView)
	CapEditLicenses    = CapabilityOf(ResourceLicenses, ActionEdit)
	CapViewVehicles    = CapabilityOf(ResourceVehicles, ActionView)
	CapEditVehicles    = CapabilityOf(ResourceVehicles, ActionEdit)
	CapViewViolations  = CapabilityOf(ResourceViolations, ActionView)
	CapEditViolations  = CapabilityOf(ResourceViolations, ActionEdit)
	CapViewAuthorities = CapabilityOf(ResourceAuthorities, ActionView)
	CapEditAuthorities = CapabilityOf(ResourceAuthorities, ActionEdit)
	CapViewReports     = CapabilityOf(ResourceReports, ActionView)
	CapViewSettings    = CapabilityOf(ResourceSettings, ActionView)
	CapEditSettings    = CapabilityOf(ResourceSettings, ActionEdit)
)

// AllCapabilities lists every capability the console knows about.
// The position of a capability is its bit in a Permission.
var AllCapabilities = []Capability{
	CapViewDashboard,
	CapViewLicenses,
	CapEditLicenses,
	CapViewVehicles,
	CapEditVehicles,
	CapViewViolations,
	CapEditViolations,
	CapViewAuthorities,
	CapEditAuthorities,
	CapViewReports,
	CapViewSettings,
	CapEditSettings,
}

// capabilityTable is the single source of truth for what a role may do.
// Adding a role or a capability is an edit to this table only.
var capabilityTable = map[Role][]Capability{
	RoleSuperAdmin:    AllCapabilities,
	RoleRegionalAdmin: {
		CapViewDashboard,
		CapViewLicenses, CapEditLicenses,
		CapViewVehicles, CapEditVehicles,
		CapViewViolations, CapEditViolations,
		CapViewReports,
	},
	RoleViewer: {
		CapViewDashboard,
		CapViewLicenses,
		CapViewVehicles,
		CapViewViolations,
		CapViewAuthorities,
	},
	RoleNone: {},
}

var (
	capabilityBits = buildCapabilityBits(AllCapabilities)
	roleMasks      = buildRoleMasks(capabilityTable)
)

func buildCapabilityBits(caps []Capability) map[Capability]uint64 {
	bits := make(map[Capability]uint64, len(caps))
	for i, c := range caps {
		bits[c] = 1 << uint(i)
	}
	return bits
}

func buildRoleMasks(table map[Role][]Capability) map[Role]uint64 {
	masks := make(map[Role]uint64, len(table))
	for role, caps := range table {
		var mask uint64
		for _, c := range caps {
			mask |= capabilityBits[c]
		}
		masks[role] = mask
	}
	return masks
}

// Permission is the resolved access profile of a session.
// It is a comparable value: two permissions are identical iff they are ==.
type Permission struct {
	role  Role
	scope LocationScope
	mask  uint64
}

// PermissionsFor maps a role and a scope to a Permission.
// An unrecognized role gets the viewer capability set.
func PermissionsFor(role Role, scope LocationScope) Permission {
	mask, ok := roleMasks[role]
	if !ok {
		role = RoleViewer
		mask = roleMasks[RoleViewer]
	}

	return Permission{role: role, scope: scope, mask: mask}
}

// Role returns the resolved role.
func (p Permission) Role() Role { return p.role }

// LocationScope returns the geographic scope of the permission.
func (p Permission) LocationScope() LocationScope { return p.scope }

// Has reports whether the permission carries the capability.
func (p Permission) Has(c Capability) bool {
	bit, ok := capabilityBits[c]
	return ok && p.mask&bit != 0
}

// Can reports whether the action is allowed on the resource.
func (p Permission) Can(resource Resource, action Action) bool {
	return p.Has(CapabilityOf(resource, action))
}

// Flags returns every known capability with its value.
func (p Permission) Flags() map[Capability]bool {
	flags := make(map[Capability]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		flags[c] = p.Has(c)
	}
	return flags
}

// Capabilities returns the granted capabilities, sorted.
func (p Permission) Capabilities() []Capability {
	granted := make([]Capability, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if p.Has(c) {
			granted = append(granted, c)
		}
	}
	sort.Slice(granted, func(i, j int) bool { return granted[i] < granted[j] })
	return granted
}

// UnknownIdentityPolicy decides what a connected identity missing from the
// registry receives.
type UnknownIdentityPolicy string

const (
	// UnknownIdentityViewer grants viewer access with scope "all".
	UnknownIdentityViewer UnknownIdentityPolicy = "viewer"

	// UnknownIdentityDeny grants nothing.
	UnknownIdentityDeny UnknownIdentityPolicy = "deny"
)

// IsValid checks if the policy is known.
func (p UnknownIdentityPolicy) IsValid() bool {
	return p == UnknownIdentityViewer || p == UnknownIdentityDeny
}

// AnonymousPermission is granted to callers without a connected identity.
func AnonymousPermission() Permission {
	return PermissionsFor(RoleViewer, ScopeAll)
}

// Resolve maps an identity to its Permission using the registry.
// It never fails: anonymous and unknown identities get viewer access.
func Resolve(identity string, connected bool, registry Registry) Permission {
	return ResolveWithPolicy(identity, connected, registry, UnknownIdentityViewer)
}

// ResolveWithPolicy is Resolve with an explicit policy for identities that are
// connected but not registered.
func ResolveWithPolicy(identity string, connected bool, registry Registry, policy UnknownIdentityPolicy) Permission {
	normalized := NormalizeIdentity(identity)
	if !connected || normalized == "" {
		return AnonymousPermission()
	}

	if registry != nil {
		if entry, ok := registry.Lookup(normalized); ok {
			return PermissionsFor(entry.Role, entry.LocationScope)
		}
	}

	if policy == UnknownIdentityDeny {
		return PermissionsFor(RoleNone, ScopeNone)
	}

	return AnonymousPermission()
}
