package streaks

// Milestones are the streak targets shown to users, ascending.
var Milestones = []int{3, 7, 14, 30, 60, 90, 100, 365}

// MilestoneStep extends the table past its last entry: 415, 465, 515, ...
const MilestoneStep = 50

// NextMilestone is the first milestone strictly greater than current.
func NextMilestone(current int) int {
	if current < 0 {
		current = 0
	}
	for _, m := range Milestones {
		if m > current {
			return m
		}
	}
	last := Milestones[len(Milestones)-1]
	steps := (current-last)/MilestoneStep + 1
	return last + steps*MilestoneStep
}

// DaysToMilestone is always at least 1.
func DaysToMilestone(current int) int {
	if current < 0 {
		current = 0
	}
	return NextMilestone(current) - current
}

// MilestoneProgress is current/next, in [0, 1).
func MilestoneProgress(current int) float64 {
	if current <= 0 {
		return 0
	}
	return float64(current) / float64(NextMilestone(current))
}

// CrossedMilestone returns the highest milestone m with from < m <= to, or 0.
func CrossedMilestone(from, to int) int {
	crossed := 0
	for _, m := range Milestones {
		if m > from && m <= to {
			crossed = m
		}
	}
	last := Milestones[len(Milestones)-1]
	for m := last + MilestoneStep; m <= to; m += MilestoneStep {
		if m > from {
			crossed = m
		}
	}
	return crossed
}
