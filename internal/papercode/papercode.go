// Package papercode parses and validates exam paper codes such as 0452_w04_qp_3
// and expands the session ranges accepted by getmany.
package papercode

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

var (
	paperCodePattern   = regexp.MustCompile(`(?i)^(\d{4})_([mswy])(\d{2}|\d{2}-\d{2})_(` + typeAlternation() + `)(?:_(\d[a-z0-9]?))?$`)
	subjectCodePattern = regexp.MustCompile(`^\d{4}$`)
)

// typeAlternation joins every paper type longest first so that "sci" is tried before "sc"
func typeAlternation() string {
	types := models.AllPaperTypes()
	sort.SliceStable(types, func(i, j int) bool {
		return len(types[i]) > len(types[j])
	})
	return strings.Join(types, "|")
}

// Parse validates a paper code and returns its components.
// Session and paper type are normalized to lowercase; Raw keeps the input as typed.
func Parse(code string) (models.PaperCode, error) {
	m := paperCodePattern.FindStringSubmatch(code)
	if m == nil {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindInvalidFormat,
			"expected <subject>_<session><year>_<type>[_<number>], e.g. 0452_w04_qp_3")
	}

	pc := models.PaperCode{
		SubjectCode: m[1],
		Session:     models.ParseSession(m[2]),
		Year:        m[3],
		PaperType:   strings.ToLower(m[4]),
		PaperNumber: strings.ToLower(m[5]),
		Raw:         code,
	}

	if pc.IsSpecimen() && !models.IsSpecimenPaperType(pc.PaperType) {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindSpecimenTypeMismatch,
			"specimen papers use one of "+strings.Join(models.SpecimenPaperTypes, ", "))
	}
	if !pc.IsSpecimen() && !models.IsNonSpecimenPaperType(pc.PaperType) {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindNonSpecimenTypeMismatch,
			"use session y for paper type "+pc.PaperType)
	}
	if pc.HasYearRange() && !models.PaperTypeAllowsYearRange(pc.PaperType) {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindIllegalYearRange,
			"only "+strings.Join(models.PaperTypesWithYearRange, ", ")+" may span two years")
	}

	hasNumber := models.PaperTypeHasNumber(pc.PaperType)
	if hasNumber && pc.PaperNumber == "" {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindMissingPaperNumber,
			"add the paper number, e.g. "+code+"_1")
	}
	if !hasNumber && pc.PaperNumber != "" {
		return models.PaperCode{}, apperrors.NewInvalidPaperCodeError(code, apperrors.KindUnexpectedPaperNumber,
			"remove the trailing _"+pc.PaperNumber)
	}

	return pc, nil
}

// ValidSubjectCode reports whether s is a four digit subject code
func ValidSubjectCode(s string) bool {
	return subjectCodePattern.MatchString(s)
}
