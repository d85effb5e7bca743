// Package pricing implements the route economics engine: corridor metadata
// plus a deterministic cost model that turns a corridor, a vehicle's fuel
// burn and a payload into an operational cost and a suggested rate.
package pricing

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Corridor is one priced lane of the southern African road network.
type Corridor struct {
	Name             string  `yaml:"name" json:"name"`
	DistanceKm       float64 `yaml:"dist" json:"dist"`
	Tolls            float64 `yaml:"tolls" json:"tolls"`
	Risk             string  `yaml:"risk" json:"risk"`
	CorridorType     string  `yaml:"corridor_type" json:"corridor_type"`
	Road             string  `yaml:"road" json:"road"`
	Crime            string  `yaml:"crime" json:"crime"`
	PreferredTrailer string  `yaml:"preferred_trailer" json:"preferred_trailer"`
}

// Catalog is a lookup of corridors by name.
type Catalog struct {
	corridors map[string]Corridor
}

// DefaultCatalog returns the built-in corridor intelligence set.
func DefaultCatalog() *Catalog {
	c := &Catalog{corridors: make(map[string]Corridor, len(builtinCorridors))}
	for _, cor := range builtinCorridors {
		c.corridors[cor.Name] = cor
	}
	return c
}

// LoadCatalog reads a corridor list from a yaml file, falling back to the
// built-in set when the path is empty or missing.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("load corridors: %w", err)
	}
	var list []Corridor
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse corridors: %w", err)
	}
	c := &Catalog{corridors: make(map[string]Corridor, len(list))}
	for _, cor := range list {
		c.corridors[cor.Name] = cor
	}
	return c, nil
}

// Get returns the corridor by name. Unknown names yield a zero-distance
// fallback so pricing degrades instead of failing.
func (c *Catalog) Get(name string) (Corridor, bool) {
	if cor, ok := c.corridors[name]; ok {
		return cor, true
	}
	return Corridor{
		Name:         name,
		Risk:         "Unknown",
		Road:         "Good",
		Crime:        "Low",
		CorridorType: "General",
	}, false
}

// Names lists the catalog corridors sorted for stable display.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.corridors))
	for n := range c.corridors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var builtinCorridors = []Corridor{
	// N3 corridor (KZN <-> Gauteng)
	{Name: "N3: Durban Port -> JHB City Deep", DistanceKm: 570, Tolls: 2850, Risk: "Medium", CorridorType: "Port", Road: "Good", Crime: "Medium", PreferredTrailer: "Interlink"},
	{Name: "N3: Durban Port -> Pretoria", DistanceKm: 610, Tolls: 2950, Risk: "Medium", CorridorType: "Port", Road: "Good", Crime: "Medium", PreferredTrailer: "Interlink"},
	{Name: "N3: Durban -> Harrismith", DistanceKm: 310, Tolls: 1650, Risk: "Medium", CorridorType: "Transit", Road: "Good", Crime: "Medium", PreferredTrailer: "Interlink"},
	{Name: "N3: Pietermaritzburg -> JHB", DistanceKm: 520, Tolls: 2600, Risk: "Medium", CorridorType: "Port", Road: "Good", Crime: "Medium", PreferredTrailer: "Interlink"},

	// N1 corridor (Cape <-> Gauteng <-> Limpopo)
	{Name: "N1: Cape Town -> JHB", DistanceKm: 1400, Tolls: 1900, Risk: "Low", CorridorType: "Long Haul", Road: "Good", Crime: "Low", PreferredTrailer: "Tautliner"},
	{Name: "N1: JHB -> Polokwane", DistanceKm: 330, Tolls: 280, Risk: "Low", CorridorType: "FMCG", Road: "Good", Crime: "Low", PreferredTrailer: "Tautliner"},
	{Name: "N1: JHB -> Musina (Beitbridge Border)", DistanceKm: 520, Tolls: 1450, Risk: "Medium", CorridorType: "Border", Road: "Fair", Crime: "High", PreferredTrailer: "Flat Deck"},
	{Name: "N1: Bloemfontein -> JHB", DistanceKm: 400, Tolls: 600, Risk: "Low", CorridorType: "Transit", Road: "Good", Crime: "Low", PreferredTrailer: "Tautliner"},

	// N2 corridor (Cape <-> KZN <-> Eastern Cape)
	{Name: "N2: Cape Town -> Gqeberha", DistanceKm: 740, Tolls: 0, Risk: "Medium", CorridorType: "Coastal", Road: "Fair", Crime: "Medium", PreferredTrailer: "Tautliner"},
	{Name: "N2: Gqeberha -> Durban", DistanceKm: 910, Tolls: 0, Risk: "High", CorridorType: "Coastal", Road: "Poor", Crime: "High", PreferredTrailer: "Interlink"},
	{Name: "N2: Richards Bay -> Durban", DistanceKm: 170, Tolls: 0, Risk: "Low", CorridorType: "Industrial", Road: "Good", Crime: "Low", PreferredTrailer: "Tautliner"},
	{Name: "N2: East London -> Durban", DistanceKm: 660, Tolls: 0, Risk: "High", CorridorType: "Coastal", Road: "Poor", Crime: "High", PreferredTrailer: "Interlink"},

	// N4 corridor (Maputo <-> Mpumalanga <-> Gauteng)
	{Name: "N4: Maputo -> Witbank", DistanceKm: 380, Tolls: 1200, Risk: "High", CorridorType: "Border", Road: "Fair", Crime: "High", PreferredTrailer: "Flat Deck"},
	{Name: "N4: Witbank -> Pretoria", DistanceKm: 110, Tolls: 90, Risk: "Low", CorridorType: "Industrial", Road: "Good", Crime: "Low", PreferredTrailer: "Tautliner"},
	{Name: "N4: Pretoria -> Rustenburg", DistanceKm: 140, Tolls: 90, Risk: "Medium", CorridorType: "Mining", Road: "Fair", Crime: "Medium", PreferredTrailer: "Side Tipper"},
	{Name: "N4: Rustenburg -> Botswana Border", DistanceKm: 210, Tolls: 0, Risk: "Low", CorridorType: "Border", Road: "Good", Crime: "Low", PreferredTrailer: "Flat Deck"},
}
