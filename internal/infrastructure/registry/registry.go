// Package registry loads the identity registry and the region catalog from a
// YAML file, falling back to built-in defaults.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iho/trafficadmin/internal/domain"
)

// File is the on-disk layout of a registry file.
//
//	regions:
//	  quang_ninh: ["Quảng Ninh", "Quang Ninh"]
//	identities:
//	  - identity: "0xabc..."
//	    role: regional_admin
//	    location_scope: quang_ninh
//	    display_name: PC08 Quảng Ninh
type File struct {
	Regions    map[string][]string `yaml:"regions"`
	Identities []Identity          `yaml:"identities"`
}

// Identity is one registry file entry.
type Identity struct {
	Identity      string `yaml:"identity"`
	Role          string `yaml:"role"`
	LocationScope string `yaml:"location_scope"`
	DisplayName   string `yaml:"display_name"`
	Organization  string `yaml:"organization"`
}

// Loaded is the result of loading a registry.
type Loaded struct {
	Registry *domain.StaticRegistry
	Catalog  domain.ScopeCatalog
}

// DefaultEntries are the built-in administrator identities.
func DefaultEntries() []domain.RegistryEntry {
	return []domain.RegistryEntry{
		{
			Identity:      "0x1111111111111111111111111111111111111111",
			Role:          domain.RoleSuperAdmin,
			LocationScope: domain.ScopeAll,
			DisplayName:   "Cục Cảnh sát giao thông",
			Organization:  "Bộ Công an",
		},
		{
			Identity:      "0x2222222222222222222222222222222222222222",
			Role:          domain.RoleRegionalAdmin,
			LocationScope: domain.ScopeHanoi,
			DisplayName:   "Phòng CSGT Hà Nội",
			Organization:  "Công an TP Hà Nội",
		},
		{
			Identity:      "0x3333333333333333333333333333333333333333",
			Role:          domain.RoleRegionalAdmin,
			LocationScope: domain.ScopeHoChiMinh,
			DisplayName:   "Phòng CSGT TP.HCM",
			Organization:  "Công an TP Hồ Chí Minh",
		},
		{
			Identity:      "0x4444444444444444444444444444444444444444",
			Role:          domain.RoleRegionalAdmin,
			LocationScope: domain.ScopeDaNang,
			DisplayName:   "Phòng CSGT Đà Nẵng",
			Organization:  "Công an TP Đà Nẵng",
		},
		{
			Identity:      "0x5555555555555555555555555555555555555555",
			Role:          domain.RoleViewer,
			LocationScope: domain.ScopeAll,
			DisplayName:   "Thanh tra Bộ GTVT",
			Organization:  "Bộ Giao thông vận tải",
		},
	}
}

// Default returns the built-in registry and catalog.
func Default() Loaded {
	return Loaded{
		Registry: domain.NewStaticRegistry(DefaultEntries()),
		Catalog:  domain.DefaultScopeCatalog(),
	}
}

// Load reads a registry file. An empty path yields Default.
func Load(path string) (Loaded, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes registry YAML. Regions extend the default catalog; every
// identity must carry a known role and a scope the catalog knows.
func Parse(data []byte) (Loaded, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Loaded{}, fmt.Errorf("failed to parse registry: %w", err)
	}

	extra := make(domain.ScopeCatalog, len(file.Regions))
	for name, cities := range file.Regions {
		scope := domain.LocationScope(name)
		if scope == domain.ScopeAll || scope == domain.ScopeNone || name == "" {
			return Loaded{}, fmt.Errorf("registry: reserved region name %q", name)
		}
		if len(cities) == 0 {
			return Loaded{}, fmt.Errorf("registry: region %q has no city names", name)
		}
		extra[scope] = cities
	}
	catalog := domain.DefaultScopeCatalog().Merge(extra)

	entries := make([]domain.RegistryEntry, 0, len(file.Identities))
	for i, id := range file.Identities {
		entry := domain.RegistryEntry{
			Identity:      id.Identity,
			Role:          domain.Role(id.Role),
			LocationScope: domain.LocationScope(id.LocationScope),
			DisplayName:   id.DisplayName,
			Organization:  id.Organization,
		}
		if domain.NormalizeIdentity(entry.Identity) == "" {
			return Loaded{}, fmt.Errorf("registry: identity %d is empty", i)
		}
		if !entry.Role.IsValid() {
			return Loaded{}, fmt.Errorf("registry: identity %s has unknown role %q", entry.Identity, id.Role)
		}
		if entry.LocationScope != domain.ScopeNone && !catalog.IsKnown(entry.LocationScope) {
			return Loaded{}, fmt.Errorf("registry: identity %s has unknown scope %q", entry.Identity, id.LocationScope)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		entries = DefaultEntries()
	}

	return Loaded{
		Registry: domain.NewStaticRegistry(entries),
		Catalog:  catalog,
	}, nil
}
