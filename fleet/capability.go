// Package fleet holds the physical capability rules of the vehicle pool:
// what each trailer configuration can carry and whether a vehicle may take
// a given consignment.
package fleet

// Capability is the carrying profile of a trailer configuration.
type Capability struct {
	MaxTons float64
	Hazmat  bool
}

// trailerCapabilities maps trailer configurations to their rated payload and
// hazmat fitment. Unknown configurations fall back to a conservative default.
var trailerCapabilities = map[string]Capability{
	"Interlink": {MaxTons: 36, Hazmat: false},
	"Tri-Axle":  {MaxTons: 28, Hazmat: false},
	"Tautliner": {MaxTons: 34, Hazmat: true},
	"Rigid":     {MaxTons: 8, Hazmat: true},
	"Tipper":    {MaxTons: 34, Hazmat: false},
	"Flat Deck": {MaxTons: 30, Hazmat: false},
}

var defaultCapability = Capability{MaxTons: 14, Hazmat: false}

// CapabilityFor returns the rated capability for a trailer configuration.
func CapabilityFor(trailerType string) Capability {
	if c, ok := trailerCapabilities[trailerType]; ok {
		return c
	}
	return defaultCapability
}

// TrailerTypes lists the known trailer configurations.
func TrailerTypes() []string {
	return []string{"Interlink", "Tri-Axle", "Tautliner", "Rigid", "Tipper", "Flat Deck"}
}
