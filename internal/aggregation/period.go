package aggregation

import (
	"errors"
	"strings"
	"time"
)

// Period selects the look-back width of a dashboard window.
type Period string

const (
	PeriodOneMonth  Period = "1month"
	PeriodSixMonths Period = "6months"
	PeriodOneYear   Period = "1year"
)

const DefaultPeriod = PeriodSixMonths

var ErrInvalidPeriod = errors.New("invalid_period")

// ParsePeriod returns DefaultPeriod for an empty selector.
func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultPeriod, nil
	case PeriodOneMonth:
		return PeriodOneMonth, nil
	case PeriodSixMonths:
		return PeriodSixMonths, nil
	case PeriodOneYear:
		return PeriodOneYear, nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) Months() int {
	switch p {
	case PeriodOneMonth:
		return 1
	case PeriodOneYear:
		return 12
	default:
		return 6
	}
}

// Window is the half-open range [start, end) ending at now.
func Window(p Period, now time.Time) (time.Time, time.Time) {
	end := now.UTC()
	return end.AddDate(0, -p.Months(), 0), end
}

// PreviousWindow is the equal-length range immediately before Window.
func PreviousWindow(p Period, now time.Time) (time.Time, time.Time) {
	start, _ := Window(p, now)
	return start.AddDate(0, -p.Months(), 0), start
}
