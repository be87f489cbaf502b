// Package csvfile reads the student records from a CSV file.
// The file is read wholesale on every call: edits show up on the next request.
package csvfile

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/student"
)

// Columns lists the header of the records file, in the order WriteStudents writes them.
var Columns = []string{
	"student_id", "name", "email", "course", "semester", "specialization", "extracurricular_activities",
	"test1_score", "test2_score", "test3_score", "attendance_percentage", "assignments_completed", "gpa",
	"total_classes", "classes_attended",
}

type studentRepository struct {
	path string
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(path string) student.Repository {
	return &studentRepository{path: path}
}

func (repo *studentRepository) QueryAll(ctx context.Context) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(repo.path)
	if err != nil {
		return nil, errors.Wrap(err, "opening student records")
	}
	defer func() { _ = f.Close() }()

	students, err := ReadStudents(f)
	return students, errors.Wrapf(err, "reading %s", repo.path)
}

func (repo *studentRepository) GetByID(ctx context.Context, id int) (student.Student, error) {
	students, err := repo.QueryAll(ctx)
	if err != nil {
		return student.Student{}, err
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

// ReadStudents parses student records, mapping columns by header name.
// Columns may come in any order; unknown columns are ignored.
func ReadStudents(r io.Reader) ([]student.Student, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []student.Student{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range Columns {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}

	students := make([]student.Student, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", line)
		}
		s, err := parseStudent(rowReader{rec: rec, cols: cols})
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		students = append(students, s)
	}
	return students, nil
}

func parseStudent(row rowReader) (student.Student, error) {
	s := student.Student{
		ID:                   row.atoi("student_id"),
		Name:                 row.str("name"),
		Email:                row.str("email"),
		Course:               row.str("course"),
		Semester:             row.atoi("semester"),
		Specialization:       row.str("specialization"),
		Extracurricular:      row.str("extracurricular_activities"),
		Test1Score:           row.atof("test1_score"),
		Test2Score:           row.atof("test2_score"),
		Test3Score:           row.atof("test3_score"),
		AttendancePercentage: row.atof("attendance_percentage"),
		AssignmentsCompleted: row.atoi("assignments_completed"),
		GPA:                  row.atof("gpa"),
		TotalClasses:         row.atoi("total_classes"),
		ClassesAttended:      row.atoi("classes_attended"),
	}
	return s, row.err
}

// rowReader keeps the first conversion error.
type rowReader struct {
	rec  []string
	cols map[string]int
	err  error
}

func (r *rowReader) str(col string) string {
	i := r.cols[col]
	if i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) atoi(col string) int {
	v, err := strconv.Atoi(r.str(col))
	if err != nil && r.err == nil {
		r.err = errors.Errorf("column %q: %q is not an integer", col, r.str(col))
	}
	return v
}

func (r *rowReader) atof(col string) float64 {
	v, err := strconv.ParseFloat(r.str(col), 64)
	if (err != nil || math.IsNaN(v) || math.IsInf(v, 0)) && r.err == nil {
		r.err = errors.Errorf("column %q: %q is not a number", col, r.str(col))
	}
	return v
}

// WriteStudents writes students as CSV, header first.
func WriteStudents(w io.Writer, students []student.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return errors.Wrap(err, "writing header")
	}
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	for _, s := range students {
		rec := []string{
			strconv.Itoa(s.ID), s.Name, s.Email, s.Course, strconv.Itoa(s.Semester), s.Specialization,
			s.Extracurricular, ftoa(s.Test1Score), ftoa(s.Test2Score), ftoa(s.Test3Score),
			ftoa(s.AttendancePercentage), strconv.Itoa(s.AssignmentsCompleted), ftoa(s.GPA),
			strconv.Itoa(s.TotalClasses), strconv.Itoa(s.ClassesAttended),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "writing student %d", s.ID)
		}
	}
	cw.Flush()
	return cw.Error()
}
