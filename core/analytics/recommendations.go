package analytics

import "github.com/trezcool/masomo-dashboard/core"

const (
	RecommendAttendance  = "Try to improve your attendance to better understand the course material"
	RecommendAssignments = "Complete more assignments to strengthen your practical skills"
	RecommendHelp        = "Consider seeking additional help with course material"
	RecommendPractice    = "Regular practice could help improve your test scores"
)

// Recommendations returns the advice that applies, in order: attendance, assignments, test scores.
// The result is never nil.
func Recommendations(attendance float64, assignmentsCompleted int, scores []float64) ([]string, error) {
	if err := validateScoreSeq(scores); err != nil {
		return nil, err
	}
	flds := assignmentFieldErrors(assignmentsCompleted)
	if fe, ok := checkPercentage("attendance_percentage", attendance); !ok {
		flds = append([]core.FieldError{fe}, flds...)
	}
	if err := newInputError(flds); err != nil {
		return nil, err
	}
	return recommendations(attendance, assignmentsCompleted, scores), nil
}

func recommendations(attendance float64, assignmentsCompleted int, scores []float64) []string {
	recs := make([]string, 0, 3)
	if attendance < 85 {
		recs = append(recs, RecommendAttendance)
	}
	if assignmentsCompleted < 8 {
		recs = append(recs, RecommendAssignments)
	}
	if avg := mean(scores); avg < 70 {
		recs = append(recs, RecommendHelp)
	} else if avg < 80 {
		recs = append(recs, RecommendPractice)
	}
	return recs
}
