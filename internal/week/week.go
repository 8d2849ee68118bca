package week

import "time"

// The business week runs Saturday 00:00:00 through Friday 23:59:59.
// Every commission, target and streak computation anchors on these bounds.
const startDay = time.Saturday

const daysPerWeek = 7

// Bounds returns the start (Saturday 00:00:00.000 UTC) and end (Friday
// 23:59:59.999999999 UTC) of the business week containing t.
func Bounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	back := (int(t.Weekday()) - int(startDay) + daysPerWeek) % daysPerWeek
	y, m, d := t.AddDate(0, 0, -back).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 0, daysPerWeek).Add(-time.Nanosecond)
	return start, end
}

// Start returns the week-start anchor for t.
func Start(t time.Time) time.Time {
	start, _ := Bounds(t)
	return start
}

// Between returns the absolute number of whole weeks between the
// week-start anchors of a and b. Order does not matter.
func Between(a, b time.Time) int {
	sa := Start(a)
	sb := Start(b)
	days := int(sb.Sub(sa).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days / daysPerWeek
}

// Navigate moves t by n whole weeks (negative n goes backward).
func Navigate(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*daysPerWeek)
}

// Next returns the same instant one week later.
func Next(t time.Time) time.Time { return Navigate(t, 1) }

// Previous returns the same instant one week earlier.
func Previous(t time.Time) time.Time { return Navigate(t, -1) }

// Same reports whether a and b fall inside the same business week.
func Same(a, b time.Time) bool {
	return Start(a).Equal(Start(b))
}
