package common

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// NowFunc is the clock of the service, tests replace it to pin "today".
	NowFunc = time.Now

	// Location is the business time zone, calendar days (deadlines, daily stats, retention) are computed in it.
	Location = loadLocation(os.Getenv("APP_TIMEZONE"))
)

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("unknown time zone %q, fallback to local: %v", name, err)
		return time.Local
	}
	return loc
}

// CurrentTime returns the current instant in UTC with microsecond precision.
func CurrentTime() time.Time {
	return NowFunc().UTC().Round(time.Microsecond)
}

func Today() Date {
	return DateOf(NowFunc().In(Location))
}

// DayRange returns the UTC bounds [start, end) of the calendar day d.
func DayRange(d Date) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Location)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
