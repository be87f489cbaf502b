package analytics

import (
	"fmt"
	"strconv"
)

// TargetAttendance is the minimum attended/held ratio for good standing.
const TargetAttendance = 0.85

type (
	AttendanceStatus string
	Severity         string
)

const (
	AttendanceGood     AttendanceStatus = "Good"
	AttendanceWarning  AttendanceStatus = "Warning"
	AttendanceCritical AttendanceStatus = "Critical"

	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

type (
	Alert struct {
		Severity Severity `json:"severity"`
		Message  string   `json:"message"`
	}

	AttendancePattern struct {
		Status            AttendanceStatus `json:"status"`
		ClassesMissed     int              `json:"classes_missed"`
		ClassesNeeded     int              `json:"classes_needed"`
		CurrentPercentage float64          `json:"current_percentage"`
	}

	AttendanceSummary struct {
		Pattern         AttendancePattern `json:"pattern"`
		Alerts          []Alert           `json:"alerts"`
		AttendanceRate  float64           `json:"attendance_rate"`
		TotalClasses    int               `json:"total_classes"`
		AttendedClasses int               `json:"attended_classes"`
	}
)

// AttendanceShortfall projects how many consecutive classes must be attended to reach TargetAttendance,
// and raises an alert when the student is below good standing.
func AttendanceShortfall(percentage float64, totalClasses, classesAttended int) (AttendanceSummary, error) {
	if err := newInputError(attendanceFieldErrors(percentage, totalClasses, classesAttended)); err != nil {
		return AttendanceSummary{}, err
	}
	return attendanceShortfall(percentage, totalClasses, classesAttended), nil
}

func attendanceShortfall(percentage float64, totalClasses, classesAttended int) AttendanceSummary {
	pattern := AttendancePattern{
		Status:            attendanceStatus(percentage),
		ClassesMissed:     totalClasses - classesAttended,
		CurrentPercentage: percentage,
	}
	if percentage < 85 {
		pattern.ClassesNeeded = classesNeeded(totalClasses, classesAttended)
	}
	return AttendanceSummary{
		Pattern:         pattern,
		Alerts:          attendanceAlerts(pattern),
		AttendanceRate:  percentage,
		TotalClasses:    totalClasses,
		AttendedClasses: classesAttended,
	}
}

func attendanceStatus(percentage float64) AttendanceStatus {
	switch {
	case percentage >= 85:
		return AttendanceGood
	case percentage >= 75:
		return AttendanceWarning
	default:
		return AttendanceCritical
	}
}

// classesNeeded simulates attending every following class, one at a time.
// Each attended class moves the ratio towards 1, so the loop always ends.
// No class held yet counts as a ratio of 0.
func classesNeeded(total, attended int) int {
	var needed int
	for total == 0 || float64(attended)/float64(total) < TargetAttendance {
		needed++
		total++
		attended++
	}
	return needed
}

func attendanceAlerts(p AttendancePattern) []Alert {
	alerts := make([]Alert, 0, 1)
	pct := strconv.FormatFloat(p.CurrentPercentage, 'f', -1, 64)
	switch p.Status {
	case AttendanceCritical:
		alerts = append(alerts, Alert{
			Severity: SeverityHigh,
			Message: fmt.Sprintf("Critical attendance alert! Current attendance is %s%%. "+
				"Need to attend next %d classes to reach minimum requirement.", pct, p.ClassesNeeded),
		})
	case AttendanceWarning:
		alerts = append(alerts, Alert{
			Severity: SeverityMedium,
			Message: fmt.Sprintf("Attendance warning! Current attendance is %s%%. "+
				"Need to attend next %d classes to reach good standing.", pct, p.ClassesNeeded),
		})
	}
	return alerts
}
