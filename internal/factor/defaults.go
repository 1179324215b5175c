package factor

import (
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
)

// defaultCategories is the built-in catalog, in kg CO2e per unit.
var defaultCategories = []Category{
	{Key: "electricity", Label: "Électricité (réseau France)", Scope: emissiondomain.Scope2, Unit: "kWh", Factor: 0.052},
	{Key: "district_heating", Label: "Réseau de chaleur", Scope: emissiondomain.Scope2, Unit: "kWh", Factor: 0.109},
	{Key: "natural_gas", Label: "Gaz naturel", Scope: emissiondomain.Scope1, Unit: "kWh", Factor: 0.227},
	{Key: "heating_oil", Label: "Fioul domestique", Scope: emissiondomain.Scope1, Unit: "L", Factor: 3.25},
	{Key: "diesel", Label: "Gazole", Scope: emissiondomain.Scope1, Unit: "L", Factor: 3.16},
	{Key: "petrol", Label: "Essence", Scope: emissiondomain.Scope1, Unit: "L", Factor: 2.80},
	{Key: "train", Label: "Train", Scope: emissiondomain.Scope3, Unit: "km", Factor: 0.0029},
	{Key: "car_average", Label: "Voiture (moyenne)", Scope: emissiondomain.Scope3, Unit: "km", Factor: 0.218},
	{Key: "flight_short_haul", Label: "Avion court-courrier", Scope: emissiondomain.Scope3, Unit: "km", Factor: 0.258},
	{Key: "flight_long_haul", Label: "Avion long-courrier", Scope: emissiondomain.Scope3, Unit: "km", Factor: 0.152},
	{Key: "road_freight", Label: "Fret routier", Scope: emissiondomain.Scope3, Unit: "tkm", Factor: 0.0939},
	{Key: "waste_landfill", Label: "Déchets enfouis", Scope: emissiondomain.Scope3, Unit: "kg", Factor: 0.467},
	{Key: "paper_recycling", Label: "Recyclage papier", Scope: emissiondomain.Scope3, Unit: "kg", Factor: -0.5},
	{Key: "water", Label: "Eau potable", Scope: emissiondomain.Scope3, Unit: "m3", Factor: 0.132},
	{Key: "purchased_goods", Label: "Achats de biens", Scope: emissiondomain.Scope3, Unit: "EUR", Factor: 0.6},
	{Key: "purchased_services", Label: "Achats de services", Scope: emissiondomain.Scope3, Unit: "EUR", Factor: 0.1},
}

// defaultAliases are free-text activity keys seen on invoices.
var defaultAliases = map[string]float64{
	"electricite": 0.052,
	"gaz":         0.227,
	"fioul":       3.25,
	"gasoil":      3.16,
	"carburant":   3.16,
	"avion":       0.258,
	"dechets":     0.467,
	"eau":         0.132,
}

// DefaultCategories returns a copy of the built-in catalog.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// DefaultAliases returns a copy of the built-in alias factors.
func DefaultAliases() map[string]float64 {
	out := make(map[string]float64, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = v
	}
	return out
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	return NewTable(DefaultAliases(), DefaultCategories())
}
