package analytics

const (
	// TotalAssignments is the number of assignments of a semester, used by every caller.
	TotalAssignments = 10

	// DaysPerAssignment is the estimated time needed to complete one assignment.
	DaysPerAssignment = 7

	// maxNormalPaceDays is the longest remaining time still considered a normal pace.
	maxNormalPaceDays = 30
)

type (
	AlertLevel string
	Pace       string
	Likelihood string
)

const (
	AlertLevelHigh   AlertLevel = "High"
	AlertLevelMedium AlertLevel = "Medium"
	AlertLevelLow    AlertLevel = "Low"
	AlertLevelNone   AlertLevel = "None"

	PaceNormal      Pace = "Normal"
	PaceAccelerated Pace = "Accelerated"

	LikelihoodHigh   Likelihood = "High"
	LikelihoodMedium Likelihood = "Medium"
	LikelihoodLow    Likelihood = "Low"
)

const (
	assignmentAlertHigh   = "High Priority: Multiple assignments pending. Please complete them soon."
	assignmentAlertMedium = "Medium Priority: Stay on track with your remaining assignments."
	assignmentAlertLow    = "Low Priority: You're doing well, keep up the good work!"
	assignmentAlertNone   = "All assignments completed! Great job!"
)

type (
	AssignmentStatus struct {
		Total          int        `json:"total"`
		Completed      int        `json:"completed"`
		Pending        int        `json:"pending"`
		CompletionRate float64    `json:"completion_rate"`
		Alert          string     `json:"alert"`
		AlertLevel     AlertLevel `json:"alert_level"`
	}

	AssignmentAnalytics struct {
		Status                  AssignmentStatus `json:"status"`
		EstimatedCompletionDays int              `json:"estimated_completion_days"`
		RecommendedPace         Pace             `json:"recommended_pace"`
		SuccessProbability      Likelihood       `json:"success_probability"`
	}
)

// AssignmentCompletion estimates the risk and pace of finishing the remaining assignments.
func AssignmentCompletion(completed int) (AssignmentAnalytics, error) {
	if err := newInputError(assignmentFieldErrors(completed)); err != nil {
		return AssignmentAnalytics{}, err
	}
	return assignmentCompletion(completed), nil
}

func assignmentCompletion(completed int) AssignmentAnalytics {
	status := assignmentStatus(completed)
	remaining := status.Pending * DaysPerAssignment

	pace := PaceNormal
	if remaining > maxNormalPaceDays {
		pace = PaceAccelerated
	}

	var success Likelihood
	switch {
	case status.CompletionRate >= 80:
		success = LikelihoodHigh
	case status.CompletionRate >= 60:
		success = LikelihoodMedium
	default:
		success = LikelihoodLow
	}

	return AssignmentAnalytics{
		Status:                  status,
		EstimatedCompletionDays: remaining,
		RecommendedPace:         pace,
		SuccessProbability:      success,
	}
}

func assignmentStatus(completed int) AssignmentStatus {
	status := AssignmentStatus{
		Total:          TotalAssignments,
		Completed:      completed,
		Pending:        TotalAssignments - completed,
		CompletionRate: float64(completed) / TotalAssignments * 100,
	}

	switch {
	case status.Pending <= 0:
		status.Alert, status.AlertLevel = assignmentAlertNone, AlertLevelNone
	case status.CompletionRate < 60:
		status.Alert, status.AlertLevel = assignmentAlertHigh, AlertLevelHigh
	case status.CompletionRate < 80:
		status.Alert, status.AlertLevel = assignmentAlertMedium, AlertLevelMedium
	default:
		status.Alert, status.AlertLevel = assignmentAlertLow, AlertLevelLow
	}
	return status
}
