package models

// ProgressMap maps a course identifier to a completion percentage in
// [0, 100]. An absent key means 0% progress.
type ProgressMap map[string]float64

// Percent returns the stored percentage for a course, 0 when absent.
func (p ProgressMap) Percent(courseID string) float64 {
	return p[courseID]
}
