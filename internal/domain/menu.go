package domain

// MenuItem is a navigable section of the console.
type MenuItem struct {
	ID    string
	Label string
	Path  string
	Icon  string
}

// menuGates maps each menu id to the capability that reveals it.
// A menu id without an entry is never shown.
var menuGates = map[string]Capability{
	"dashboard":   CapViewDashboard,
	"licenses":    CapViewLicenses,
	"vehicles":    CapViewVehicles,
	"violations":  CapViewViolations,
	"authorities": CapViewAuthorities,
	"reports":     CapViewReports,
	"settings":    CapViewSettings,
}

// DefaultMenu returns the console navigation in display order.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{ID: "dashboard", Label: "Dashboard", Path: "/", Icon: "dashboard"},
		{ID: "licenses", Label: "Driver Licenses", Path: "/licenses", Icon: "id-card"},
		{ID: "vehicles", Label: "Vehicles", Path: "/vehicles", Icon: "car"},
		{ID: "violations", Label: "Violations", Path: "/violations", Icon: "alert-triangle"},
		{ID: "authorities", Label: "Traffic Authorities", Path: "/authorities", Icon: "building"},
		{ID: "reports", Label: "Reports", Path: "/reports", Icon: "bar-chart"},
		{ID: "settings", Label: "Settings", Path: "/settings", Icon: "settings"},
	}
}

// MenuCapability returns the capability gating a menu id.
func MenuCapability(id string) (Capability, bool) {
	c, ok := menuGates[id]
	return c, ok
}

// VisibleMenu returns the items the permission may reach, in input order.
func VisibleMenu(p Permission, items []MenuItem) []MenuItem {
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		c, ok := menuGates[item.ID]
		if !ok || !p.Has(c) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}
