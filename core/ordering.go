package core

import "strings"

type Ordering struct {
	Field     string
	Ascending bool
}

// ParseOrderings parses a comma separated list of fields, "-" prefixed fields being descending.
// e.g. "-gpa,name"
func ParseOrderings(s string) []Ordering {
	var orderings []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, Ordering{Field: field, Ascending: !descending})
	}
	return orderings
}
