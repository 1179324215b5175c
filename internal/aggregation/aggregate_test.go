package aggregation

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(nil)
	assert.Equal(t, 0.0, res.Total)
	assert.Equal(t, ScopeTotals{}, res.ByScope)
	assert.NotNil(t, res.ByCategory)
	assert.Empty(t, res.ByCategory)
	assert.NotNil(t, res.Monthly)
	assert.Empty(t, res.Monthly)
}

func TestAggregateThreeRecordScenario(t *testing.T) {
	records := []Record{
		{CO2e: 100, Scope: "SCOPE_1", Period: "2024-01", ActivityType: "Gaz naturel"},
		{CO2e: 50, Scope: "SCOPE_2", Period: "2024-01", ActivityType: "Électricité"},
		{CO2e: 25, Scope: "SCOPE_3", Period: "2024-02", ActivityType: "Train"},
	}

	res := Aggregate(records)

	assert.Equal(t, 175.0, res.Total)
	assert.Equal(t, ScopeTotals{Scope1: 100, Scope2: 50, Scope3: 25}, res.ByScope)
	assert.Equal(t, []MonthlyPoint{
		{Month: "2024-01", Emissions: 150, Scope1: 100, Scope2: 50, Scope3: 0},
		{Month: "2024-02", Emissions: 25, Scope1: 0, Scope2: 0, Scope3: 25},
	}, res.Monthly)
}

func TestAggregateScopeBucketsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scopes := []string{"SCOPE_1", "SCOPE_2", "SCOPE_3"}

	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(40)
		records := make([]Record, n)
		for i := range records {
			records[i] = Record{
				CO2e:         rng.Float64()*1000 - 100,
				Scope:        scopes[rng.Intn(3)],
				ActivityType: []string{"a", "b", "c", ""}[rng.Intn(4)],
				ActivityDate: date(2024, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)),
			}
		}
		res := Aggregate(records)
		assert.InDelta(t, res.Total, res.ByScope.Sum(), 1e-9)

		var monthly float64
		for _, p := range res.Monthly {
			monthly += p.Emissions
		}
		assert.InDelta(t, res.Total, monthly, 1e-9)
	}
}

func TestAggregateCategoriesSortedDescendingAndStable(t *testing.T) {
	records := []Record{
		{CO2e: 10, Scope: "SCOPE_3", ActivityType: "Train", Period: "2024-01"},
		{CO2e: 40, Scope: "SCOPE_1", ActivityType: "Gazole", Period: "2024-01"},
		{CO2e: 10, Scope: "SCOPE_3", ActivityType: "Eau", Period: "2024-01"},
		{CO2e: 5, Scope: "SCOPE_3", ActivityType: "", Period: "2024-01"},
		{CO2e: 10, Scope: "SCOPE_1", ActivityType: "Gazole", Period: "2024-02"},
	}

	res := Aggregate(records)

	require.Len(t, res.ByCategory, 4)
	for i := 0; i+1 < len(res.ByCategory); i++ {
		assert.GreaterOrEqual(t, res.ByCategory[i].Emissions, res.ByCategory[i+1].Emissions)
	}
	assert.Equal(t, []CategoryTotal{
		{Category: "Gazole", Emissions: 50},
		{Category: "Train", Emissions: 10},
		{Category: "Eau", Emissions: 10},
		{Category: UncategorizedLabel, Emissions: 5},
	}, res.ByCategory)
}

func TestAggregateMonthlyUniqueAscending(t *testing.T) {
	records := []Record{
		{CO2e: 1, Scope: "SCOPE_1", Period: "2024-01"},
		{CO2e: 1, Scope: "SCOPE_1", Period: "2024-03"},
		{CO2e: 1, Scope: "SCOPE_1", Period: "2024-02"},
		{CO2e: 1, Scope: "SCOPE_2", Period: "2024-03"},
	}

	res := Aggregate(records)

	months := make([]string, 0, len(res.Monthly))
	for _, p := range res.Monthly {
		months = append(months, p.Month)
	}
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, months)
}

func TestAggregateDerivesMonthFromActivityDate(t *testing.T) {
	records := []Record{
		{CO2e: 3, Scope: "SCOPE_2", ActivityDate: date(2023, time.December, 31)},
		{CO2e: 4, Scope: "SCOPE_2", Period: "2023-12"},
	}

	res := Aggregate(records)

	require.Len(t, res.Monthly, 1)
	assert.Equal(t, "2023-12", res.Monthly[0].Month)
	assert.Equal(t, 7.0, res.Monthly[0].Scope2)
}

func TestAggregateUnknownScopeKeptInTotalOnly(t *testing.T) {
	records := []Record{
		{CO2e: 10, Scope: "SCOPE_1", Period: "2024-01"},
		{CO2e: 7, Scope: "SCOPE_9", Period: "2024-01"},
		{CO2e: 3, Scope: "", Period: "2024-01"},
	}

	res := Aggregate(records)

	assert.Equal(t, 20.0, res.Total)
	assert.Equal(t, ScopeTotals{Scope1: 10}, res.ByScope)
	assert.Equal(t, 20.0, res.Monthly[0].Emissions)
	assert.Equal(t, 10.0, res.Monthly[0].Scope1)
}

func TestAggregateNaNPropagates(t *testing.T) {
	res := Aggregate([]Record{
		{CO2e: 1, Scope: "SCOPE_1", Period: "2024-01"},
		{CO2e: math.NaN(), Scope: "SCOPE_1", Period: "2024-01"},
	})
	assert.True(t, math.IsNaN(res.Total))
	assert.True(t, math.IsNaN(res.ByScope.Scope1))
	assert.Equal(t, 0.0, res.ByScope.Scope2)
}

func TestAggregateIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	records := []Record{
		{CO2e: 12.5, Scope: "SCOPE_3", ActivityType: "Avion", ActivityDate: date(2024, time.May, 3)},
		{CO2e: 2.25, Scope: "SCOPE_1", ActivityType: "Gazole", Period: "2024-04"},
		{CO2e: 12.5, Scope: "SCOPE_2", ActivityType: "Électricité", Period: "2024-05"},
	}
	snapshot := make([]Record, len(records))
	copy(snapshot, records)

	first := Aggregate(records)
	second := Aggregate(records)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendBlock{Current: 500, Previous: 0, Reduction: 0}, Trend(500, 0))
	assert.Equal(t, 0.0, Trend(0, 0).Reduction)
	assert.InDelta(t, 25.0, Trend(75, 100).Reduction, 1e-9)
	assert.InDelta(t, -50.0, Trend(150, 100).Reduction, 1e-9)
}
