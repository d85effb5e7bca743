package missions

// ChecklistItem is one line of the pre-trip inspection. Critical items
// block mission start when unchecked; the rest are logged as exceptions.
type ChecklistItem struct {
	Label    string `json:"label"`
	Critical bool   `json:"critical"`
	Checked  bool   `json:"checked"`
}

// DefaultChecklist is the standard three-group pre-trip inspection:
// mechanical, trailer and driver.
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{Label: "Brakes", Critical: true},
		{Label: "Tires", Critical: true},
		{Label: "Lights", Critical: true},
		{Label: "Fluids", Critical: true},
		{Label: "Wipers", Critical: false},
		{Label: "Leaks", Critical: true},
		{Label: "Landing legs", Critical: true},
		{Label: "Susie cables", Critical: true},
		{Label: "Twist locks", Critical: true},
		{Label: "Air pressure", Critical: false},
		{Label: "License & PrDP valid", Critical: true},
		{Label: "Logbook up to date", Critical: true},
		{Label: "PPE in place", Critical: false},
		{Label: "Fit to drive", Critical: true},
	}
}

// MissingItems splits the unchecked items into critical and non-critical
// label lists.
func MissingItems(items []ChecklistItem) (critical, noncritical []string) {
	for _, it := range items {
		if it.Checked {
			continue
		}
		if it.Critical {
			critical = append(critical, it.Label)
		} else {
			noncritical = append(noncritical, it.Label)
		}
	}
	return critical, noncritical
}
