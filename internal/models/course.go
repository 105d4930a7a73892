package models

// Course is a catalog entry. Immutable from the client's perspective within
// a session; JSON tags follow the directory's wire contract.
type Course struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	ShortDescription string  `json:"shortDescription"`
	Description      string  `json:"description"`
	ThumbnailURL     string  `json:"thumbnailUrl"`
}

// CourseFilter narrows a catalog listing. Zero values mean no filtering.
type CourseFilter struct {
	Title    string
	Category string
}
