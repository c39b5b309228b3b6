package models

import "sort"

// Exam categories known to the archive
const (
	CategoryALevel = "alevel"
	CategoryIGCSE  = "igcse"
	CategoryOLevel = "olevel"
)

// SubjectDirectory maps exam categories and subject codes to path segments on the archive site
type SubjectDirectory struct {
	// ExamPageLinks maps a category to the path segment of its index page
	ExamPageLinks map[string]string `json:"exam_page_links"`
	// Subjects maps a category to subject code → subject path segment
	Subjects map[string]map[string]string `json:"subjects"`
}

// SubjectLocation is where a subject lives on the archive site
type SubjectLocation struct {
	Category        string
	CategorySegment string
	SubjectSegment  string
}

// Lookup finds a subject code across all categories. Categories are scanned in
// sorted order so a code listed under two categories resolves deterministically.
func (d SubjectDirectory) Lookup(subjectCode string) (SubjectLocation, bool) {
	for _, category := range d.Categories() {
		segment, ok := d.Subjects[category][subjectCode]
		if !ok {
			continue
		}
		return SubjectLocation{
			Category:        category,
			CategorySegment: d.ExamPageLinks[category],
			SubjectSegment:  segment,
		}, true
	}
	return SubjectLocation{}, false
}

// Categories returns the categories that have subjects, sorted
func (d SubjectDirectory) Categories() []string {
	categories := make([]string, 0, len(d.Subjects))
	for category := range d.Subjects {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// SubjectCodes returns every known subject code, sorted and deduplicated
func (d SubjectDirectory) SubjectCodes() []string {
	seen := make(map[string]struct{})
	for _, subjects := range d.Subjects {
		for code := range subjects {
			seen[code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsEmpty reports whether no subject has been discovered yet
func (d SubjectDirectory) IsEmpty() bool {
	for _, subjects := range d.Subjects {
		if len(subjects) > 0 {
			return false
		}
	}
	return true
}
