package models

import (
	"slices"
	"strings"
)

// Paper type sets. A paper type belongs to exactly one of the specimen and
// non-specimen sets; the number and year-range sets are restrictions on top.
var (
	NonSpecimenPaperTypes = []string{"qp", "ms", "er", "gt", "sf", "in", "i2", "ci", "qr", "rp", "tn", "ir"}
	SpecimenPaperTypes    = []string{"sc", "sci", "si", "sm", "sp", "su", "sy"}

	// PaperTypesWithoutNumber never carry a trailing paper number (e.g. examiner reports)
	PaperTypesWithoutNumber = []string{"er", "gt", "sy", "su"}

	// PaperTypesWithYearRange may cover two years, e.g. 0620_y20-21_su
	PaperTypesWithYearRange = []string{"sy", "su"}
)

// PaperCode is a parsed, validated paper code such as 0452_w04_qp_3
type PaperCode struct {
	SubjectCode string  `json:"subjectCode"`
	Session     Session `json:"session"`
	Year        string  `json:"year"`        // "04" or a range like "20-21"
	PaperType   string  `json:"paperType"`   // lowercase
	PaperNumber string  `json:"paperNumber"` // empty when the type has no number
	Raw         string  `json:"raw"`         // code exactly as typed by the user
}

// String returns the canonical form of the code
func (p PaperCode) String() string {
	var sb strings.Builder
	sb.WriteString(p.SubjectCode)
	sb.WriteString("_")
	sb.WriteString(p.Session.String())
	sb.WriteString(p.Year)
	sb.WriteString("_")
	sb.WriteString(p.PaperType)
	if p.PaperNumber != "" {
		sb.WriteString("_")
		sb.WriteString(p.PaperNumber)
	}
	return sb.String()
}

// IsSpecimen reports whether the code refers to a specimen paper
func (p PaperCode) IsSpecimen() bool {
	return p.Session.IsSpecimen()
}

// HasYearRange reports whether the year is a two-year range
func (p PaperCode) HasYearRange() bool {
	return strings.Contains(p.Year, "-")
}

// FirstYear returns the year, or the first year of a range
func (p PaperCode) FirstYear() string {
	first, _, _ := strings.Cut(p.Year, "-")
	return first
}

// SearchTerm is the string looked for in listing page links. The raw input is
// used rather than the canonical form so that the search is exactly what the user typed.
func (p PaperCode) SearchTerm() string {
	if p.Raw != "" {
		return p.Raw
	}
	return p.String()
}

// IsSpecimenPaperType reports whether t is in the specimen set
func IsSpecimenPaperType(t string) bool {
	return slices.Contains(SpecimenPaperTypes, t)
}

// IsNonSpecimenPaperType reports whether t is in the non-specimen set
func IsNonSpecimenPaperType(t string) bool {
	return slices.Contains(NonSpecimenPaperTypes, t)
}

// PaperTypeHasNumber reports whether codes of type t must carry a paper number
func PaperTypeHasNumber(t string) bool {
	return !slices.Contains(PaperTypesWithoutNumber, t)
}

// PaperTypeAllowsYearRange reports whether codes of type t may carry a year range
func PaperTypeAllowsYearRange(t string) bool {
	return slices.Contains(PaperTypesWithYearRange, t)
}

// AllPaperTypes returns every known paper type, specimen types first
func AllPaperTypes() []string {
	all := make([]string, 0, len(SpecimenPaperTypes)+len(NonSpecimenPaperTypes))
	all = append(all, SpecimenPaperTypes...)
	all = append(all, NonSpecimenPaperTypes...)
	return all
}
