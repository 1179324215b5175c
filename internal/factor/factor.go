package factor

// Calculate converts an activity quantity into kg CO2e. Negative factors
// are recycling credits and yield negative results.
func Calculate(quantity, factor float64) float64 {
	return quantity * factor
}
