package services

import "time"

// WeekInfo describes one ISO week and its inclusive Monday..Sunday range.
type WeekInfo struct {
	Week  int       `json:"week"`
	Year  int       `json:"year"`
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// All week arithmetic is done in UTC so the bucketing doesn't drift with
// the server's local timezone.

func WeekNumber(date time.Time) int {
	_, week := date.UTC().ISOWeek()
	return week
}

// ISOYear returns the year owning the date's ISO week, which can differ
// from the calendar year around New Year.
func ISOYear(date time.Time) int {
	year, _ := date.UTC().ISOWeek()
	return year
}

// WeekBounds returns the Monday and Sunday of the given ISO week at
// midnight UTC. ISO week 1 is the week containing the first Thursday of
// the year, so its Monday is the Monday on or before January 4th.
func WeekBounds(week int, year int) (time.Time, time.Time) {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	start := week1Monday.AddDate(0, 0, (week-1)*7)
	end := start.AddDate(0, 0, 6)

	return start, end
}

func CurrentPeriod() WeekInfo {
	now := time.Now().UTC()
	week := WeekNumber(now)
	year := ISOYear(now)
	start, end := WeekBounds(week, year)

	return WeekInfo{Week: week, Year: year, Start: start, End: end}
}

// DateInWeek reports whether date falls inside the given ISO week,
// inclusive of both boundary days.
func DateInWeek(date time.Time, week int, year int) bool {
	start, end := WeekBounds(week, year)
	d := date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	return !day.Before(start) && !day.After(end)
}

func FormatDate(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}
