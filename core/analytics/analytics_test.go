package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T (%v)", err, err)
	return vErr.FieldMap()
}

func TestWeightedGPA(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   float64
	}{
		{name: "perfect", scores: Scores{100, 100, 100}, want: 4.0},
		{name: "zero", scores: Scores{0, 0, 0}, want: 0},
		{name: "weighted", scores: Scores{60, 70, 80}, want: ((60*0.3 + 70*0.3 + 80*0.4) / 100) * 4.0},
		{name: "last test weighs most", scores: Scores{0, 0, 100}, want: 1.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WeightedGPA(tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	got, err := WeightedGPA(Scores{60, 70, 80})
	require.NoError(t, err)
	assert.InDelta(t, 2.84, got, 1e-9)
}

func TestWeightedGPA_range(t *testing.T) {
	for t1 := 0.0; t1 <= 100; t1 += 12.5 {
		for t2 := 0.0; t2 <= 100; t2 += 12.5 {
			for t3 := 0.0; t3 <= 100; t3 += 12.5 {
				got, err := WeightedGPA(Scores{t1, t2, t3})
				require.NoError(t, err)
				if got < 0 || got > GPAScale+1e-9 {
					t.Fatalf("WeightedGPA(%v, %v, %v) = %v; want within [0, 4]", t1, t2, t3, got)
				}
			}
		}
	}
}

func TestWeightedGPA_invalid(t *testing.T) {
	_, err := WeightedGPA(Scores{-1, 101, math.NaN()})
	assert.Equal(t, map[string]string{
		"test1_score": "must be between 0 and 100",
		"test2_score": "must be between 0 and 100",
		"test3_score": "must be a number",
	}, fieldErrors(t, err))
}

func TestPerformanceTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   TrendLabel
	}{
		{name: "strong improvement", scores: Scores{70, 80, 90}, want: TrendStrongImprovement},
		{name: "needs attention", scores: Scores{90, 80, 70}, want: TrendNeedsAttention},
		{name: "flat", scores: Scores{80, 80, 80}, want: TrendMaintainingLevel},
		{name: "steady: recent not > 5", scores: Scores{70, 85, 90}, want: TrendSteadyImprovement},
		{name: "steady: overall not > 10", scores: Scores{80, 82, 90}, want: TrendSteadyImprovement},
		{name: "slight decline", scores: Scores{90, 88, 85}, want: TrendSlightDecline},
		{name: "recent up, overall down", scores: Scores{90, 70, 80}, want: TrendMaintainingLevel},
		{name: "recent down, overall up", scores: Scores{70, 90, 80}, want: TrendMaintainingLevel},
		{name: "recent > 5 but overall < 10", scores: Scores{81, 84, 90}, want: TrendSteadyImprovement},
		{name: "boundary: overall == -10", scores: Scores{90, 86, 80}, want: TrendSlightDecline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PerformanceTrend(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrendLabel_Icon(t *testing.T) {
	assert.Equal(t, "📈", TrendStrongImprovement.Icon())
	assert.Equal(t, "📈", TrendSteadyImprovement.Icon())
	assert.Equal(t, "📉", TrendNeedsAttention.Icon())
	assert.Equal(t, "📉", TrendSlightDecline.Icon())
	assert.Equal(t, "📊", TrendMaintainingLevel.Icon())
}

func TestSubjectMastery(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   MasteryLevel
	}{
		{name: "excellent", scores: []float64{90, 90, 90}, want: MasteryExcellent},
		{name: "good", scores: []float64{89, 89, 89}, want: MasteryGood},
		{name: "just below excellent", scores: []float64{90, 90, 89}, want: MasteryGood},
		{name: "good lower bound", scores: []float64{80, 80, 80}, want: MasteryGood},
		{name: "average lower bound", scores: []float64{70, 70, 70}, want: MasteryAverage},
		{name: "needs improvement", scores: []float64{69.9, 70, 70}, want: MasteryNeedsImprovement},
		{name: "single score", scores: []float64{95}, want: MasteryExcellent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubjectMastery(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SubjectMastery(nil)
	assert.Equal(t, map[string]string{"test_scores": "at least one score is required"}, fieldErrors(t, err))
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name        string
		attendance  float64
		assignments int
		scores      []float64
		want        []string
	}{
		{
			name:       "all three",
			attendance: 80, assignments: 5, scores: []float64{60, 60, 60},
			want: []string{RecommendAttendance, RecommendAssignments, RecommendHelp},
		},
		{
			name:       "practice only",
			attendance: 90, assignments: 9, scores: []float64{75, 75, 75},
			want: []string{RecommendPractice},
		},
		{
			name:       "none",
			attendance: 85, assignments: 8, scores: []float64{80, 80, 80},
			want: []string{},
		},
		{
			name:       "assignments and help",
			attendance: 95, assignments: 7, scores: []float64{50, 60, 70},
			want: []string{RecommendAssignments, RecommendHelp},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recommendations(tt.attendance, tt.assignments, tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Recommendations(120, 11, []float64{50})
	assert.Equal(t, map[string]string{
		"attendance_percentage": "must be between 0 and 100",
		"assignments_completed": "must be between 0 and 10",
	}, fieldErrors(t, err))
}

func TestAttendanceShortfall(t *testing.T) {
	got, err := AttendanceShortfall(70, 100, 70)
	require.NoError(t, err)
	assert.Equal(t, AttendanceCritical, got.Pattern.Status)
	assert.Equal(t, 30, got.Pattern.ClassesMissed)

	k := got.Pattern.ClassesNeeded
	assert.Equal(t, 100, k)
	assert.True(t, float64(70+k)/float64(100+k) >= TargetAttendance)
	assert.True(t, float64(70+k-1)/float64(100+k-1) < TargetAttendance)

	require.Len(t, got.Alerts, 1)
	assert.Equal(t, Alert{
		Severity: SeverityHigh,
		Message: "Critical attendance alert! Current attendance is 70%. " +
			"Need to attend next 100 classes to reach minimum requirement.",
	}, got.Alerts[0])
	assert.Equal(t, 70.0, got.AttendanceRate)
	assert.Equal(t, 100, got.TotalClasses)
	assert.Equal(t, 70, got.AttendedClasses)
}

func TestAttendanceShortfall_tiers(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		total      int
		attended   int
		wantStatus AttendanceStatus
		wantNeeded int
		wantAlert  *Alert
	}{
		{name: "good", pct: 90, total: 50, attended: 45, wantStatus: AttendanceGood},
		{name: "good lower bound", pct: 85, total: 20, attended: 17, wantStatus: AttendanceGood},
		{
			name: "warning", pct: 80, total: 50, attended: 40, wantStatus: AttendanceWarning, wantNeeded: 17,
			wantAlert: &Alert{
				Severity: SeverityMedium,
				Message: "Attendance warning! Current attendance is 80%. " +
					"Need to attend next 17 classes to reach good standing.",
			},
		},
		{
			name: "warning with fractional percentage", pct: 77.5, total: 40, attended: 31, wantStatus: AttendanceWarning, wantNeeded: 20,
			wantAlert: &Alert{
				Severity: SeverityMedium,
				Message: "Attendance warning! Current attendance is 77.5%. " +
					"Need to attend next 20 classes to reach good standing.",
			},
		},
		{name: "percentage below target but counts already above", pct: 80, total: 10, attended: 9, wantStatus: AttendanceWarning, wantNeeded: 0,
			wantAlert: &Alert{
				Severity: SeverityMedium,
				Message: "Attendance warning! Current attendance is 80%. " +
					"Need to attend next 0 classes to reach good standing.",
			},
		},
		{name: "no class held yet", pct: 0, total: 0, attended: 0, wantStatus: AttendanceCritical, wantNeeded: 1,
			wantAlert: &Alert{
				Severity: SeverityHigh,
				Message: "Critical attendance alert! Current attendance is 0%. " +
					"Need to attend next 1 classes to reach minimum requirement.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AttendanceShortfall(tt.pct, tt.total, tt.attended)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Pattern.Status)
			assert.Equal(t, tt.wantNeeded, got.Pattern.ClassesNeeded)
			assert.Equal(t, tt.total-tt.attended, got.Pattern.ClassesMissed)
			if tt.wantAlert == nil {
				assert.Empty(t, got.Alerts)
			} else {
				assert.Equal(t, []Alert{*tt.wantAlert}, got.Alerts)
			}
		})
	}
}

// the simulation matches the closed form ceil((0.85*total - attended) / 0.15) for valid inputs.
func TestClassesNeeded_minimal(t *testing.T) {
	for total := 1; total <= 200; total++ {
		for attended := 0; attended <= total; attended++ {
			k := classesNeeded(total, attended)
			if float64(attended+k)/float64(total+k) < TargetAttendance {
				t.Fatalf("classesNeeded(%d, %d) = %d does not reach the target", total, attended, k)
			}
			if k > 0 && float64(attended+k-1)/float64(total+k-1) >= TargetAttendance {
				t.Fatalf("classesNeeded(%d, %d) = %d is not minimal", total, attended, k)
			}
		}
	}
}

func TestAttendanceShortfall_invalid(t *testing.T) {
	_, err := AttendanceShortfall(-5, 10, 11)
	assert.Equal(t, map[string]string{
		"attendance_percentage": "must be between 0 and 100",
		"classes_attended":      "cannot exceed total_classes",
	}, fieldErrors(t, err))

	_, err = AttendanceShortfall(50, -1, -1)
	assert.Equal(t, map[string]string{
		"total_classes":    "cannot be negative",
		"classes_attended": "cannot be negative",
	}, fieldErrors(t, err))
}

func TestAssignmentCompletion(t *testing.T) {
	tests := []struct {
		completed   int
		wantPending int
		wantRate    float64
		wantLevel   AlertLevel
		wantDays    int
		wantPace    Pace
		wantSuccess Likelihood
	}{
		{completed: 10, wantPending: 0, wantRate: 100, wantLevel: AlertLevelNone, wantDays: 0, wantPace: PaceNormal, wantSuccess: LikelihoodHigh},
		{completed: 9, wantPending: 1, wantRate: 90, wantLevel: AlertLevelLow, wantDays: 7, wantPace: PaceNormal, wantSuccess: LikelihoodHigh},
		{completed: 8, wantPending: 2, wantRate: 80, wantLevel: AlertLevelLow, wantDays: 14, wantPace: PaceNormal, wantSuccess: LikelihoodHigh},
		{completed: 7, wantPending: 3, wantRate: 70, wantLevel: AlertLevelMedium, wantDays: 21, wantPace: PaceNormal, wantSuccess: LikelihoodMedium},
		{completed: 6, wantPending: 4, wantRate: 60, wantLevel: AlertLevelMedium, wantDays: 28, wantPace: PaceNormal, wantSuccess: LikelihoodMedium},
		{completed: 5, wantPending: 5, wantRate: 50, wantLevel: AlertLevelHigh, wantDays: 35, wantPace: PaceAccelerated, wantSuccess: LikelihoodLow},
		{completed: 0, wantPending: 10, wantRate: 0, wantLevel: AlertLevelHigh, wantDays: 70, wantPace: PaceAccelerated, wantSuccess: LikelihoodLow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("completed=%d", tt.completed), func(t *testing.T) {
			got, err := AssignmentCompletion(tt.completed)
			require.NoError(t, err)
			assert.Equal(t, TotalAssignments, got.Status.Total)
			assert.Equal(t, tt.completed, got.Status.Completed)
			assert.Equal(t, tt.wantPending, got.Status.Pending)
			assert.InDelta(t, tt.wantRate, got.Status.CompletionRate, 1e-9)
			assert.Equal(t, tt.wantLevel, got.Status.AlertLevel)
			assert.NotEmpty(t, got.Status.Alert)
			assert.Equal(t, tt.wantDays, got.EstimatedCompletionDays)
			assert.Equal(t, tt.wantPace, got.RecommendedPace)
			assert.Equal(t, tt.wantSuccess, got.SuccessProbability)
		})
	}

	got, err := AssignmentCompletion(10)
	require.NoError(t, err)
	assert.Equal(t, "All assignments completed! Great job!", got.Status.Alert)

	_, err = AssignmentCompletion(11)
	assert.Equal(t, map[string]string{"assignments_completed": "must be between 0 and 10"}, fieldErrors(t, err))
}

func TestAnalyze(t *testing.T) {
	in := Input{
		Scores:               Scores{60, 70, 80},
		AttendancePercentage: 70,
		AssignmentsCompleted: 5,
		TotalClasses:         100,
		ClassesAttended:      70,
	}
	got, err := Analyze(in)
	require.NoError(t, err)

	assert.InDelta(t, 2.84, got.GPA, 1e-9)
	assert.Equal(t, TrendStrongImprovement, got.Trend)
	assert.Equal(t, "📈", got.TrendIcon)
	assert.Equal(t, MasteryAverage, got.Mastery)
	assert.Equal(t, []string{RecommendAttendance, RecommendAssignments, RecommendPractice}, got.Recommendations)
	assert.Equal(t, 100, got.Attendance.Pattern.ClassesNeeded)
	assert.Equal(t, AlertLevelHigh, got.Assignments.Status.AlertLevel)

	// identical inputs, identical outputs
	again, err := Analyze(in)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = Analyze(Input{Scores: Scores{50, 50, 50}, AssignmentsCompleted: -1, TotalClasses: 3, ClassesAttended: 4})
	assert.Equal(t, map[string]string{
		"assignments_completed": "must be between 0 and 10",
		"classes_attended":      "cannot exceed total_classes",
	}, fieldErrors(t, err))
}

func TestIdempotence(t *testing.T) {
	scores := Scores{72, 64, 91}

	gpa1, _ := WeightedGPA(scores)
	gpa2, _ := WeightedGPA(scores)
	assert.Equal(t, gpa1, gpa2)

	trend1, _ := PerformanceTrend(scores)
	trend2, _ := PerformanceTrend(scores)
	assert.Equal(t, trend1, trend2)

	m1, _ := SubjectMastery(scores.Slice())
	m2, _ := SubjectMastery(scores.Slice())
	assert.Equal(t, m1, m2)

	r1, _ := Recommendations(60, 3, scores.Slice())
	r2, _ := Recommendations(60, 3, scores.Slice())
	assert.Equal(t, r1, r2)

	a1, _ := AttendanceShortfall(60, 40, 24)
	a2, _ := AttendanceShortfall(60, 40, 24)
	assert.Equal(t, a1, a2)

	c1, _ := AssignmentCompletion(4)
	c2, _ := AssignmentCompletion(4)
	assert.Equal(t, c1, c2)
}
