package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	name string
	city *string
}

func (p *place) LocationTag() (string, bool) { return cityTag(p.city) }

func strPtr(s string) *string { return &s }

func TestFilterByScopeRegion(t *testing.T) {
	t.Parallel()

	catalog := ScopeCatalog{"region-a": {"Region A", "RegionA"}}
	items := []*place{
		{name: "a1", city: strPtr("Region A")},
		{name: "b1", city: strPtr("Region B")},
		{name: "a2", city: strPtr("district 3, region a")},
		{name: "n1", city: nil},
		{name: "a3", city: strPtr("RegionA")},
		{name: "b2", city: strPtr("Region B")},
	}

	got := FilterByScope("region-a", catalog, items)

	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].name)
	assert.Equal(t, "a2", got[1].name)
	assert.Equal(t, "a3", got[2].name)
	assert.Len(t, items, 6, "input untouched")
}

func TestFilterByScopeAllIsIdentity(t *testing.T) {
	t.Parallel()

	items := []*place{{name: "x", city: nil}, {name: "y", city: strPtr("Nowhere")}}
	got := FilterByScope(ScopeAll, DefaultScopeCatalog(), items)

	require.Len(t, got, len(items))
	for i := range items {
		assert.Same(t, items[i], got[i])
	}
}

func TestFilterByScopeFailsClosed(t *testing.T) {
	t.Parallel()

	items := []*place{{name: "x", city: strPtr("Hà Nội")}}

	assert.Empty(t, FilterByScope("atlantis", DefaultScopeCatalog(), items))
	assert.Empty(t, FilterByScope(ScopeNone, DefaultScopeCatalog(), items))
	assert.Empty(t, FilterByScope(ScopeHanoi, DefaultScopeCatalog(), []*place{nil}))
	assert.Empty(t, FilterByScope(ScopeHanoi, DefaultScopeCatalog(), []*place{{city: strPtr("   ")}}))
}

func TestFilterByScopeDefaultCatalog(t *testing.T) {
	t.Parallel()

	items := []*place{
		{name: "hn", city: strPtr("Hà Nội")},
		{name: "hn-ascii", city: strPtr("Quan Ba Dinh, Hanoi")},
		{name: "hcm", city: strPtr("TP.HCM")},
		{name: "dn", city: strPtr("Đà Nẵng")},
	}

	hanoi := FilterByScope(ScopeHanoi, DefaultScopeCatalog(), items)
	require.Len(t, hanoi, 2)

	hcm := FilterByScope(ScopeHoChiMinh, DefaultScopeCatalog(), items)
	require.Len(t, hcm, 1)
	assert.Equal(t, "hcm", hcm[0].name)

	// every kept item individually satisfies the scope
	for _, item := range hanoi {
		assert.True(t, InScope(ScopeHanoi, DefaultScopeCatalog(), item))
	}
}

func TestInScope(t *testing.T) {
	t.Parallel()

	catalog := DefaultScopeCatalog()
	assert.True(t, InScope(ScopeAll, catalog, &place{}))
	assert.True(t, InScope(ScopeCanTho, catalog, &place{city: strPtr("Cần Thơ")}))
	assert.False(t, InScope(ScopeCanTho, catalog, &place{city: strPtr("Hải Phòng")}))
	assert.False(t, InScope(ScopeCanTho, catalog, &place{}))
}

func TestScopeCatalog(t *testing.T) {
	t.Parallel()

	base := DefaultScopeCatalog()
	merged := base.Merge(ScopeCatalog{"hue": {"Huế", "Hue"}, ScopeHanoi: {"Thủ đô"}})

	assert.True(t, merged.IsKnown("hue"))
	assert.True(t, merged.IsKnown(ScopeAll))
	assert.False(t, base.IsKnown("hue"), "merge does not modify the receiver")
	assert.Equal(t, []string{"Thủ đô"}, merged.Names(ScopeHanoi))
	assert.Contains(t, merged.Scopes(), ScopeAll)
	assert.Len(t, merged.Scopes(), len(merged)+1)
}
