package domain

import "strings"

// LocationScope restricts which records a permission can see.
// It is either ScopeAll or a region key of a ScopeCatalog.
type LocationScope string

const (
	// ScopeAll sees every record.
	ScopeAll LocationScope = "all"

	// ScopeNone matches no region; it sees no located record.
	ScopeNone LocationScope = "none"
)

// Region keys of the built-in catalog.
const (
	ScopeHanoi     LocationScope = "hanoi"
	ScopeHoChiMinh LocationScope = "ho_chi_minh"
	ScopeDaNang    LocationScope = "da_nang"
	ScopeHaiPhong  LocationScope = "hai_phong"
	ScopeCanTho    LocationScope = "can_tho"
)

// Locatable is implemented by records that carry a city and can therefore be
// restricted by a LocationScope.
type Locatable interface {
	// LocationTag returns the city of the record, or false if it has none.
	LocationTag() (string, bool)
}

// ScopeCatalog maps a region key to the display names accepted for it.
type ScopeCatalog map[LocationScope][]string

// DefaultScopeCatalog returns the built-in regions.
func DefaultScopeCatalog() ScopeCatalog {
	return ScopeCatalog{
		ScopeHanoi:     {"Hà Nội", "Hanoi", "Ha Noi"},
		ScopeHoChiMinh: {"Hồ Chí Minh", "Ho Chi Minh", "TP.HCM", "Sài Gòn", "Saigon"},
		ScopeDaNang:    {"Đà Nẵng", "Da Nang", "Danang"},
		ScopeHaiPhong:  {"Hải Phòng", "Hai Phong"},
		ScopeCanTho:    {"Cần Thơ", "Can Tho"},
	}
}

// Merge returns a new catalog with the regions of other added to (or replacing)
// the regions of c.
func (c ScopeCatalog) Merge(other ScopeCatalog) ScopeCatalog {
	merged := make(ScopeCatalog, len(c)+len(other))
	for k, v := range c {
		merged[k] = append([]string(nil), v...)
	}
	for k, v := range other {
		merged[k] = append([]string(nil), v...)
	}
	return merged
}

// Names returns the accepted display names of a region.
func (c ScopeCatalog) Names(scope LocationScope) []string {
	return c[scope]
}

// Scopes returns every scope a permission can carry: ScopeAll plus the
// catalog regions.
func (c ScopeCatalog) Scopes() []LocationScope {
	scopes := make([]LocationScope, 0, len(c)+1)
	scopes = append(scopes, ScopeAll)
	for k := range c {
		scopes = append(scopes, k)
	}
	return scopes
}

// IsKnown reports whether scope is ScopeAll or a catalog region.
func (c ScopeCatalog) IsKnown(scope LocationScope) bool {
	if scope == ScopeAll {
		return true
	}
	_, ok := c[scope]
	return ok
}

// InScope reports whether a single record is visible under scope.
// Records without a city are never visible under a regional scope.
func InScope(scope LocationScope, catalog ScopeCatalog, item Locatable) bool {
	if scope == ScopeAll {
		return true
	}
	return cityMatches(item, lowerNames(catalog.Names(scope)))
}

// FilterByScope keeps the items visible under scope.
// ScopeAll returns items unchanged; a scope unknown to the catalog keeps
// nothing.
func FilterByScope[T Locatable](scope LocationScope, catalog ScopeCatalog, items []T) []T {
	if scope == ScopeAll {
		return items
	}

	names := lowerNames(catalog.Names(scope))
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if cityMatches(item, names) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

func cityMatches(item Locatable, lowered []string) bool {
	if len(lowered) == 0 {
		return false
	}

	city, ok := locationTag(item)
	if !ok {
		return false
	}

	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return false
	}

	for _, name := range lowered {
		if strings.Contains(city, name) {
			return true
		}
	}

	return false
}

func lowerNames(names []string) []string {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			lowered = append(lowered, n)
		}
	}
	return lowered
}

// locationTag reads the city of item; a nil record has none.
func locationTag(item Locatable) (city string, ok bool) {
	if item == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			city, ok = "", false
		}
	}()
	return item.LocationTag()
}

// cityTag is the LocationTag implementation shared by records with a
// nullable city.
func cityTag(city *string) (string, bool) {
	if city == nil {
		return "", false
	}
	return *city, true
}
