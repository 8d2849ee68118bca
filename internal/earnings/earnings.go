package earnings

// Entry is the slice of a job the weekly aggregation cares about.
// Amounts are whole currency units.
type Entry struct {
	Amount int64
	Tip    int64
}

// Totals aggregates a week's jobs into the figures the dashboard shows.
// Revenue excludes tips. Tips feed the pocket total but never count
// toward the weekly target.
type Totals struct {
	Revenue int64
	Tips    int64
	Jobs    int
}

// Collect sums a week's entries.
func Collect(entries []Entry) Totals {
	t := Totals{Jobs: len(entries)}
	for _, e := range entries {
		t.Revenue += e.Amount
		t.Tips += e.Tip
	}
	return t
}

// TargetMet reports whether revenue reached the weekly target.
// Hitting the target exactly counts.
func TargetMet(revenue, target int64) bool {
	return revenue >= target
}

// Pocket is the "mi bolsillo" total: commission plus tips.
func Pocket(commission float64, tips int64) float64 {
	return commission + float64(tips)
}
