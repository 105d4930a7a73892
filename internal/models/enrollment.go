package models

import "sort"

// EnrollmentSet holds the course identifiers the current user is enrolled
// in. Membership only; iteration helpers sort for determinism.
type EnrollmentSet map[string]struct{}

// NewEnrollmentSet builds a set from a list of course identifiers.
func NewEnrollmentSet(courseIDs []string) EnrollmentSet {
	set := make(EnrollmentSet, len(courseIDs))
	for _, id := range courseIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports membership.
func (s EnrollmentSet) Contains(courseID string) bool {
	_, ok := s[courseID]
	return ok
}

// Len returns the number of enrolled courses.
func (s EnrollmentSet) Len() int { return len(s) }

// IDs returns the member course identifiers in sorted order.
func (s EnrollmentSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
