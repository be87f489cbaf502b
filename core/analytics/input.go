package analytics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

var errInvalidInput = errors.New("invalid student metrics input")

// Scores are a student's three test scores in chronological order.
type Scores struct {
	Test1 float64 `json:"test1_score"`
	Test2 float64 `json:"test2_score"`
	Test3 float64 `json:"test3_score"`
}

// Slice returns the scores as a sequence.
func (s Scores) Slice() []float64 {
	return []float64{s.Test1, s.Test2, s.Test3}
}

func (s Scores) Validate() error {
	return newInputError(s.fieldErrors())
}

func (s Scores) fieldErrors() []core.FieldError {
	var flds []core.FieldError
	for i, score := range s.Slice() {
		if fe, ok := checkPercentage(fmt.Sprintf("test%d_score", i+1), score); !ok {
			flds = append(flds, fe)
		}
	}
	return flds
}

// Input holds the raw record fields the metrics are derived from.
type Input struct {
	Scores
	AttendancePercentage float64 `json:"attendance_percentage"`
	AssignmentsCompleted int     `json:"assignments_completed"`
	TotalClasses         int     `json:"total_classes"`
	ClassesAttended      int     `json:"classes_attended"`
}

func (in Input) Validate() error {
	flds := in.Scores.fieldErrors()
	flds = append(flds, attendanceFieldErrors(in.AttendancePercentage, in.TotalClasses, in.ClassesAttended)...)
	flds = append(flds, assignmentFieldErrors(in.AssignmentsCompleted)...)
	return newInputError(flds)
}

func newInputError(flds []core.FieldError) error {
	if len(flds) == 0 {
		return nil
	}
	return core.NewValidationError(errInvalidInput, flds...)
}

func checkPercentage(field string, v float64) (core.FieldError, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return core.FieldError{Field: field, Error: "must be a number"}, false
	}
	if v < MinScore || v > MaxScore {
		return core.FieldError{Field: field, Error: "must be between 0 and 100"}, false
	}
	return core.FieldError{}, true
}

func attendanceFieldErrors(pct float64, total, attended int) []core.FieldError {
	var flds []core.FieldError
	if fe, ok := checkPercentage("attendance_percentage", pct); !ok {
		flds = append(flds, fe)
	}
	if total < 0 {
		flds = append(flds, core.FieldError{Field: "total_classes", Error: "cannot be negative"})
	}
	switch {
	case attended < 0:
		flds = append(flds, core.FieldError{Field: "classes_attended", Error: "cannot be negative"})
	case total >= 0 && attended > total:
		flds = append(flds, core.FieldError{Field: "classes_attended", Error: "cannot exceed total_classes"})
	}
	return flds
}

func assignmentFieldErrors(completed int) []core.FieldError {
	if completed < 0 || completed > TotalAssignments {
		return []core.FieldError{{
			Field: "assignments_completed",
			Error: fmt.Sprintf("must be between 0 and %d", TotalAssignments),
		}}
	}
	return nil
}

func validateScoreSeq(scores []float64) error {
	if len(scores) == 0 {
		return newInputError([]core.FieldError{{Field: "test_scores", Error: "at least one score is required"}})
	}
	var flds []core.FieldError
	for i, score := range scores {
		if fe, ok := checkPercentage(fmt.Sprintf("test%d_score", i+1), score); !ok {
			flds = append(flds, fe)
		}
	}
	return newInputError(flds)
}

func mean(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
