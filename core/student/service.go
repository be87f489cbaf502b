package student

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/analytics"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// orderable fields
	orderingFields = map[string]func(a, b Student) int{
		"student_id": func(a, b Student) int { return compareInts(a.ID, b.ID) },
		"name":       func(a, b Student) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
		"gpa":        func(a, b Student) int { return compareFloats(a.GPA, b.GPA) },
		"attendance_percentage": func(a, b Student) int {
			return compareFloats(a.AttendancePercentage, b.AttendancePercentage)
		},
	}

	// search suggestions
	maxSuggestions     = 3
	minSuggestionRatio = 0.6
)

type (
	Repository interface {
		// QueryAll returns every student, in file order.
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id int) (Student, error)
	}

	Service interface {
		GetByID(ctx context.Context, id int) (Student, error)
		Profile(ctx context.Context, id int) (Profile, error)
		Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) (QueryResult, error)
		List(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]Student, error)
		FilterOptions(ctx context.Context) (FilterOptions, error)
		Overview(ctx context.Context, filter QueryFilter) (Overview, error)
		Distributions(ctx context.Context, filter QueryFilter) (Distributions, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *service) Profile(ctx context.Context, id int) (Profile, error) {
	s, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	report, err := analytics.Analyze(s.AnalyticsInput())
	if err != nil {
		return Profile{}, errors.Wrapf(err, "analyzing student %d", id)
	}
	return Profile{Student: s, Report: report}, nil
}

// Query applies the search & filters, then orders the rows.
// Unknown ordering fields are ignored.
func (svc *service) Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) (QueryResult, error) {
	all, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return QueryResult{}, errors.Wrap(err, "querying students")
	}
	filter.Clean()
	students := filter.apply(all)
	orderStudents(students, orderings)

	rows := make([]Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, NewRow(s))
	}
	res := QueryResult{Count: len(rows), Results: rows}
	if len(rows) == 0 && filter.Search != "" {
		res.Suggestions = suggestNames(filter.Search, all)
	}
	return res, nil
}

// List is Query returning full records, without suggestions.
func (svc *service) List(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]Student, error) {
	students, err := svc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	orderStudents(students, orderings)
	return students, nil
}

func (svc *service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	all, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return FilterOptions{}, errors.Wrap(err, "querying students")
	}
	specs := make(map[string]struct{})
	clubs := make(map[string]struct{})
	for _, s := range all {
		specs[s.Specialization] = struct{}{}
		clubs[s.Extracurricular] = struct{}{}
	}
	return FilterOptions{Specializations: sortedKeys(specs), Clubs: sortedKeys(clubs)}, nil
}

func (svc *service) Overview(ctx context.Context, filter QueryFilter) (Overview, error) {
	students, err := svc.filtered(ctx, filter)
	if err != nil {
		return Overview{}, err
	}
	return NewOverview(students), nil
}

func (svc *service) Distributions(ctx context.Context, filter QueryFilter) (Distributions, error) {
	students, err := svc.filtered(ctx, filter)
	if err != nil {
		return Distributions{}, err
	}
	return NewDistributions(students), nil
}

func (svc *service) filtered(ctx context.Context, filter QueryFilter) ([]Student, error) {
	all, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	filter.Clean()
	return filter.apply(all), nil
}

func orderStudents(students []Student, orderings []core.Ordering) {
	cmps := make([]func(a, b Student) int, 0, len(orderings))
	for _, ord := range orderings {
		cmp, ok := orderingFields[ord.Field]
		if !ok {
			continue
		}
		if ord.Ascending {
			cmps = append(cmps, cmp)
		} else {
			cmps = append(cmps, func(a, b Student) int { return cmp(b, a) })
		}
	}
	if len(cmps) == 0 {
		return
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, cmp := range cmps {
			if c := cmp(students[i], students[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// suggestNames returns the names closest to the search, best match first.
func suggestNames(search string, students []Student) []string {
	type candidate struct {
		name  string
		ratio float64
	}
	search = strings.ToLower(search)
	seen := make(map[string]bool)
	candidates := make([]candidate, 0)
	for _, s := range students {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		m := difflib.NewMatcher(strings.Split(search, ""), strings.Split(strings.ToLower(s.Name), ""))
		if ratio := m.Ratio(); ratio >= minSuggestionRatio {
			candidates = append(candidates, candidate{name: s.Name, ratio: ratio})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ratio > candidates[j].ratio })

	var names []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		names = append(names, candidates[i].name)
	}
	return names
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
