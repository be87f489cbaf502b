package student

import (
	"strconv"
	"strings"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/analytics"
)

// TopPerformerGPA is the minimum (pre-stored) GPA of a top performer.
const TopPerformerGPA = 3.7

// Student is one row of the student records file.
type Student struct {
	ID                   int     `json:"student_id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Course               string  `json:"course"`
	Semester             int     `json:"semester"`
	Specialization       string  `json:"specialization"`
	Extracurricular      string  `json:"extracurricular_activities"`
	Test1Score           float64 `json:"test1_score"`
	Test2Score           float64 `json:"test2_score"`
	Test3Score           float64 `json:"test3_score"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	AssignmentsCompleted int     `json:"assignments_completed"`
	GPA                  float64 `json:"gpa"` // pre-stored; not the weighted GPA of the analytics report
	TotalClasses         int     `json:"total_classes"`
	ClassesAttended      int     `json:"classes_attended"`
}

func (s Student) Scores() analytics.Scores {
	return analytics.Scores{Test1: s.Test1Score, Test2: s.Test2Score, Test3: s.Test3Score}
}

// AnalyticsInput returns the raw fields the metrics engine needs.
func (s Student) AnalyticsInput() analytics.Input {
	return analytics.Input{
		Scores:               s.Scores(),
		AttendancePercentage: s.AttendancePercentage,
		AssignmentsCompleted: s.AssignmentsCompleted,
		TotalClasses:         s.TotalClasses,
		ClassesAttended:      s.ClassesAttended,
	}
}

func (s Student) IsTopPerformer() bool {
	return s.GPA >= TopPerformerGPA
}

// matches does a case-insensitive match on the name, or a substring match on the ID.
func (s Student) matches(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) ||
		strings.Contains(strconv.Itoa(s.ID), search)
}

// Profile is what the dashboard shows for one student.
type Profile struct {
	Student Student          `json:"student"`
	Report  analytics.Report `json:"report"`
}

// Row is a line of the staff student table.
type Row struct {
	ID                   int     `json:"student_id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Specialization       string  `json:"specialization"`
	GPA                  float64 `json:"gpa"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	Extracurricular      string  `json:"extracurricular_activities"`
}

func NewRow(s Student) Row {
	return Row{
		ID:                   s.ID,
		Name:                 s.Name,
		Email:                s.Email,
		Specialization:       s.Specialization,
		GPA:                  s.GPA,
		AttendancePercentage: s.AttendancePercentage,
		Extracurricular:      s.Extracurricular,
	}
}

// "All" is what the dashboard select boxes send when no value is picked.
const allOption = "All"

type QueryFilter struct {
	Search         string `query:"search"`
	Specialization string `query:"specialization"`
	Club           string `query:"club"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Specialization == "" && qf.Club == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Specialization = core.CleanString(qf.Specialization)
	qf.Club = core.CleanString(qf.Club)
	if strings.EqualFold(qf.Specialization, allOption) {
		qf.Specialization = ""
	}
	if strings.EqualFold(qf.Club, allOption) {
		qf.Club = ""
	}
}

func (qf *QueryFilter) apply(students []Student) []Student {
	if qf.IsEmpty() {
		return students
	}
	filtered := make([]Student, 0, len(students))
	for _, s := range students {
		if !s.matches(qf.Search) {
			continue
		}
		if qf.Specialization != "" && s.Specialization != qf.Specialization {
			continue
		}
		if qf.Club != "" && s.Extracurricular != qf.Club {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

type QueryResult struct {
	Count       int      `json:"count"`
	Results     []Row    `json:"results"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type FilterOptions struct {
	Specializations []string `json:"specializations"`
	Clubs           []string `json:"clubs"`
}
