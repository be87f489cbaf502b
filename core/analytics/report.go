package analytics

// Report gathers every metric derived from one student's record.
type Report struct {
	GPA             float64             `json:"gpa"`
	Trend           TrendLabel          `json:"trend"`
	TrendIcon       string              `json:"trend_icon"`
	Mastery         MasteryLevel        `json:"mastery"`
	Recommendations []string            `json:"recommendations"`
	Attendance      AttendanceSummary   `json:"attendance"`
	Assignments     AssignmentAnalytics `json:"assignments"`
}

// Analyze validates the input once and derives the full Report.
func Analyze(in Input) (Report, error) {
	if err := in.Validate(); err != nil {
		return Report{}, err
	}

	scores := in.Scores.Slice()
	trend := performanceTrend(in.Scores)
	return Report{
		GPA:             weightedGPA(in.Scores),
		Trend:           trend,
		TrendIcon:       trend.Icon(),
		Mastery:         subjectMastery(scores),
		Recommendations: recommendations(in.AttendancePercentage, in.AssignmentsCompleted, scores),
		Attendance:      attendanceShortfall(in.AttendancePercentage, in.TotalClasses, in.ClassesAttended),
		Assignments:     assignmentCompletion(in.AssignmentsCompleted),
	}, nil
}
