package core

// Grade letters, best to worst.
const (
	GradeHighDistinction = "HD"
	GradeDistinction     = "D"
	GradeCredit          = "C"
	GradePass            = "P"
	GradeFail            = "Z"
)

// GradeLetters lists all grades in display order.
var GradeLetters = []string{
	GradeHighDistinction,
	GradeDistinction,
	GradeCredit,
	GradePass,
	GradeFail,
}

// GradeScale maps a numeric mark to a letter grade and a pass/fail outcome.
// Thresholds are lower bounds, inclusive.
type GradeScale struct {
	HighDistinction float64
	Distinction     float64
	Credit          float64
	Pass            float64
}

func (gs GradeScale) Letter(mark float64) string {
	switch {
	case mark >= gs.HighDistinction:
		return GradeHighDistinction
	case mark >= gs.Distinction:
		return GradeDistinction
	case mark >= gs.Credit:
		return GradeCredit
	case mark >= gs.Pass:
		return GradePass
	default:
		return GradeFail
	}
}

func (gs GradeScale) IsPassing(mark float64) bool {
	return mark >= gs.Pass
}
