package student

import (
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	histogramBins = 20

	// baselines the overview deltas are computed against
	attendanceBaseline = 75.0
	gpaBaseline        = 3.0
)

// Overview holds the key class metrics.
// Deltas are only set when the average is above its baseline.
type Overview struct {
	TotalStudents      int      `json:"total_students"`
	AvgAttendance      float64  `json:"avg_attendance"`
	AvgGPA             float64  `json:"avg_gpa"`
	TopPerformers      int      `json:"top_performers"`
	TopPerformersShare float64  `json:"top_performers_share"`
	ActiveClubs        int      `json:"active_clubs"`
	AttendanceDelta    *float64 `json:"attendance_delta,omitempty"`
	GPADelta           *float64 `json:"gpa_delta,omitempty"`
}

func NewOverview(students []Student) Overview {
	ov := Overview{TotalStudents: len(students)}
	if len(students) == 0 {
		return ov
	}

	clubs := make(map[string]struct{})
	var attendance, gpa float64
	for _, s := range students {
		attendance += s.AttendancePercentage
		gpa += s.GPA
		if s.IsTopPerformer() {
			ov.TopPerformers++
		}
		clubs[s.Extracurricular] = struct{}{}
	}
	n := float64(len(students))
	ov.AvgAttendance = attendance / n
	ov.AvgGPA = gpa / n
	ov.TopPerformersShare = float64(ov.TopPerformers) / n * 100
	ov.ActiveClubs = len(clubs)

	if ov.AvgAttendance > attendanceBaseline {
		d := ov.AvgAttendance - attendanceBaseline
		ov.AttendanceDelta = &d
	}
	if ov.AvgGPA > gpaBaseline {
		d := ov.AvgGPA - gpaBaseline
		ov.GPADelta = &d
	}
	return ov
}

// Lines renders the overview as human readable lines, localized for tag.
func (ov Overview) Lines(tag language.Tag) []string {
	p := message.NewPrinter(tag)
	lines := []string{
		p.Sprintf("Total Students: %d", ov.TotalStudents),
		p.Sprintf("Average Attendance: %.1f%%", ov.AvgAttendance),
		p.Sprintf("Average GPA: %.2f", ov.AvgGPA),
		p.Sprintf("Top Performers: %d (%.1f%%)", ov.TopPerformers, ov.TopPerformersShare),
		p.Sprintf("Active Clubs: %d", ov.ActiveClubs),
	}
	if ov.AttendanceDelta != nil {
		lines[1] += p.Sprintf(" (+%.1f%%)", *ov.AttendanceDelta)
	}
	if ov.GPADelta != nil {
		lines[2] += p.Sprintf(" (+%.2f)", *ov.GPADelta)
	}
	return lines
}

type (
	Bin struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Count int     `json:"count"`
	}

	Count struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}

	// FiveNumberSummary is what a box plot draws.
	FiveNumberSummary struct {
		Label  string  `json:"label"`
		Min    float64 `json:"min"`
		Q1     float64 `json:"q1"`
		Median float64 `json:"median"`
		Q3     float64 `json:"q3"`
		Max    float64 `json:"max"`
	}

	Distributions struct {
		GPA             []Bin               `json:"gpa"`
		Attendance      []Bin               `json:"attendance"`
		Specializations []Count             `json:"specializations"`
		Clubs           []Count             `json:"clubs"`
		TestScores      []FiveNumberSummary `json:"test_scores"`
	}
)

func NewDistributions(students []Student) Distributions {
	gpas := make([]float64, 0, len(students))
	attendance := make([]float64, 0, len(students))
	tests := [3][]float64{}
	specs := make(map[string]int)
	clubs := make(map[string]int)
	for _, s := range students {
		gpas = append(gpas, s.GPA)
		attendance = append(attendance, s.AttendancePercentage)
		for i, score := range s.Scores().Slice() {
			tests[i] = append(tests[i], score)
		}
		specs[s.Specialization]++
		clubs[s.Extracurricular]++
	}

	dist := Distributions{
		GPA:             Histogram(gpas, histogramBins),
		Attendance:      Histogram(attendance, histogramBins),
		Specializations: countsByLabel(specs),
		Clubs:           countsDescending(clubs),
		TestScores:      make([]FiveNumberSummary, 0, len(tests)),
	}
	for i, label := range []string{"test1_score", "test2_score", "test3_score"} {
		if len(tests[i]) > 0 {
			dist.TestScores = append(dist.TestScores, Summarize(label, tests[i]))
		}
	}
	return dist
}

// Histogram splits [min, max] of values into n equal-width bins; the last bin includes max.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n <= 0 {
		return []Bin{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Start: lo, End: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Start = lo + float64(i)*width
		bins[i].End = lo + float64(i+1)*width
	}
	bins[n-1].End = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// Summarize computes the five-number summary of values, with linearly interpolated quartiles.
// values must not be empty.
func Summarize(label string, values []float64) FiveNumberSummary {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return FiveNumberSummary{
		Label:  label,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	frac := pos - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

func countsByLabel(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for label, n := range m {
		counts = append(counts, Count{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Label < counts[j].Label })
	return counts
}

func countsDescending(m map[string]int) []Count {
	counts := countsByLabel(m)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}
