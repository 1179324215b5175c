package aggregation

type TrendBlock struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Reduction float64 `json:"reduction"`
}

// Trend reports the percentage decrease from previous to current. A window
// with no previous emissions has no meaningful baseline and reports 0.
func Trend(current, previous float64) TrendBlock {
	block := TrendBlock{Current: current, Previous: previous}
	if previous == 0 {
		return block
	}
	block.Reduction = (previous - current) / previous * 100
	return block
}
