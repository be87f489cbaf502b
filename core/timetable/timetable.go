// Package timetable builds the weekly lecture schedule shown to students.
//
// A Timetable is derived from a seed: the same seed always yields the same
// schedule, so a session only has to remember its seed.
package timetable

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LecturesPerDay is the number of lectures scheduled on each week day.
const LecturesPerDay = 4

var (
	// errors
	ErrInvalidDay = errors.New("invalid day; expected one of Monday..Friday")

	Subjects = []string{
		"Data Structures", "Algorithms", "Database Systems", "Computer Networks",
		"Operating Systems", "Software Engineering", "Web Development", "Machine Learning",
	}
	Venues     = []string{"Room 101", "Room 102", "Room 103", "Lab 201", "Lab 202", "Lecture Hall 301"}
	Professors = []string{
		"Dr. Sharma", "Dr. Patel", "Prof. Singh", "Dr. Kumar",
		"Prof. Gupta", "Dr. Verma", "Prof. Reddy", "Dr. Malhotra",
	}
	// Slots are listed in chronological order.
	Slots = []string{
		"09:00 AM - 10:30 AM", "10:45 AM - 12:15 PM", "01:00 PM - 02:30 PM",
		"02:45 PM - 04:15 PM", "04:30 PM - 06:00 PM",
	}
	Days = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

type Lecture struct {
	Day       string `json:"day"`
	Time      string `json:"time"`
	Subject   string `json:"subject"`
	Venue     string `json:"venue"`
	Professor string `json:"professor"`

	weekday time.Weekday
	slot    int // index in Slots
}

// Timetable holds the lectures of one week.
type Timetable struct {
	Lectures []Lecture `json:"lectures"`
}

// Generate draws a week of lectures from r. No two lectures of a day share a slot.
func Generate(r *rand.Rand) Timetable {
	lectures := make([]Lecture, 0, len(Days)*LecturesPerDay)
	for _, day := range Days {
		for _, slot := range r.Perm(len(Slots))[:LecturesPerDay] {
			lectures = append(lectures, Lecture{
				Day:       day.String(),
				Time:      Slots[slot],
				Subject:   Subjects[r.Intn(len(Subjects))],
				Venue:     Venues[r.Intn(len(Venues))],
				Professor: Professors[r.Intn(len(Professors))],
				weekday:   day,
				slot:      slot,
			})
		}
	}
	return Timetable{Lectures: lectures}
}

// FromSeed returns the timetable generated by a source seeded with seed.
func FromSeed(seed int64) Timetable {
	return Generate(rand.New(rand.NewSource(seed)))
}

// Day returns the lectures of day in slot order. Weekends have none.
func (tt Timetable) Day(day time.Weekday) []Lecture {
	lectures := make([]Lecture, 0, LecturesPerDay)
	for _, lec := range tt.Lectures {
		if lec.weekday == day {
			lectures = append(lectures, lec)
		}
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].slot < lectures[j].slot })
	return lectures
}

// Today returns the lectures scheduled on the week day of now.
func (tt Timetable) Today(now time.Time) []Lecture {
	return tt.Day(now.Weekday())
}

// ParseDay parses a week day name ("monday", "Friday"...).
func ParseDay(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	for _, day := range Days {
		if strings.EqualFold(s, day.String()) {
			return day, nil
		}
	}
	return time.Sunday, ErrInvalidDay
}

// NewSeed returns a seed read from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "reading random seed")
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
