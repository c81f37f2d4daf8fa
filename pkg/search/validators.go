package search

// GlobalSearchQuery represents the query parameters for global search.
type GlobalSearchQuery struct {
	Query    string `query:"q" json:"q" validate:"required,min=1,max=100"`
	Language string `query:"language" json:"language,omitempty" validate:"omitempty,language"`
}

// GlobalSearchResponse returns up to 5 results per content type for popover
// display.
type GlobalSearchResponse struct {
	Courses    []CourseSearchResult    `json:"courses"`
	Tutorials  []TutorialSearchResult  `json:"tutorials"`
	Professors []ProfessorSearchResult `json:"professors"`
	Resources  []ResourceSearchResult  `json:"resources"`
	Blogs      []BlogSearchResult      `json:"blogs"`
}

// CourseSearchResult represents a course in search results.
type CourseSearchResult struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Name     string `json:"name"`
}

// TutorialSearchResult represents a tutorial in search results.
type TutorialSearchResult struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Title    string `json:"title"`
}

// ProfessorSearchResult represents a professor in search results.
type ProfessorSearchResult struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Company  string `json:"company"`
}

// ResourceSearchResult represents a resource in search results.
type ResourceSearchResult struct {
	ID       int    `json:"id"`
	Language string `json:"language"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// BlogSearchResult represents a blog post in search results.
type BlogSearchResult struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

// CoursesQuery represents the query parameters for course search.
type CoursesQuery struct {
	Query    string `query:"q" json:"q" validate:"required,min=1,max=100"`
	Language string `query:"language" json:"language,omitempty" validate:"omitempty,language"`
	Limit    int    `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=50"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// ResourcesQuery represents the query parameters for resource search.
type ResourcesQuery struct {
	Query    string `query:"q" json:"q" validate:"required,min=1,max=100"`
	Language string `query:"language" json:"language,omitempty" validate:"omitempty,language"`
	Category string `query:"category" json:"category,omitempty" validate:"omitempty,max=50"`
	Limit    int    `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=50"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// PagedResponse wraps paginated search results.
type PagedResponse[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
}
