package labels

// DefaultVersion identifies the run the built-in table was curated for.
const DefaultVersion = "policylab-baseline"

// Default returns the registry curated for the baseline model run.
func Default() *Registry {
	entries := map[int]Entry{
		0:  {"Healthcare: Medication Access", "Healthcare"},
		1:  {"Healthcare: Service Delays", "Healthcare"},
		2:  {"Community: Institutional Trust", "Governance"},
		3:  {"Social: Youth Migration", "Social"},
		4:  {"Infrastructure: Housing", "Infrastructure"},
		5:  {"Economy: Informal Sector", "Economy"},
		6:  {"Governance: Institutional Trust", "Governance"},
		7:  {"Infrastructure: Power Supply", "Infrastructure"},
		8:  {"Services: Waste Management", "Services"},
		9:  {"Infrastructure: Water Access", "Infrastructure"},
		10: {"Social: Community Participation", "Social"},
		11: {"Healthcare: Mental Health", "Healthcare"},
		12: {"Economy: Entrepreneurship", "Economy"},
		13: {"Economy: Local Employment", "Economy"},
		14: {"Healthcare: Medical Facilities", "Healthcare"},
		15: {"Governance: Civic Engagement", "Governance"},
		16: {"Services: Water Quality", "Infrastructure"},
		17: {"Governance: Response Time", "Governance"},
		18: {"Governance: Public Communication", "Governance"},
	}
	colors := map[string]string{
		"Healthcare":     "#FF9999",
		"Infrastructure": "#66B2FF",
		"Economy":        "#99FF99",
		"Social":         "#FFCC99",
		"Governance":     "#FF99FF",
		"Services":       "#FFFF99",
		OtherCategory:    OtherColor,
	}
	return New(DefaultVersion, entries, colors)
}
