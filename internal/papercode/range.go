package papercode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

var (
	sessionRangePattern = regexp.MustCompile(`^([mswy])(\d{2})-(\d{2})$`)
	yearRangePattern    = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
	singleSessionPat    = regexp.MustCompile(`^([mswy])(\d{2})$`)
	singleYearPattern   = regexp.MustCompile(`^(\d{2})$`)
)

// ParseRange expands a getmany range into session tokens.
//
//	s14     one session of one year
//	s14-17  one session for every year of the inclusive range
//	14-17   every session of every year in the range
//	14      every session of one year
//
// Years ascend; within a year sessions follow models.AllSessions order.
// Years past now's two-digit year are rejected.
func ParseRange(token string, now time.Time) ([]models.SessionToken, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	maxYear := now.Year() % 100

	if m := sessionRangePattern.FindStringSubmatch(token); m != nil {
		start, end, err := yearBounds(token, m[2], m[3], maxYear)
		if err != nil {
			return nil, err
		}
		return expand(start, end, []models.Session{models.ParseSession(m[1])}), nil
	}
	if m := yearRangePattern.FindStringSubmatch(token); m != nil {
		start, end, err := yearBounds(token, m[1], m[2], maxYear)
		if err != nil {
			return nil, err
		}
		return expand(start, end, models.AllSessions), nil
	}
	if m := singleSessionPat.FindStringSubmatch(token); m != nil {
		year, _, err := yearBounds(token, m[2], m[2], maxYear)
		if err != nil {
			return nil, err
		}
		return expand(year, year, []models.Session{models.ParseSession(m[1])}), nil
	}
	if m := singleYearPattern.FindStringSubmatch(token); m != nil {
		year, _, err := yearBounds(token, m[1], m[1], maxYear)
		if err != nil {
			return nil, err
		}
		return expand(year, year, models.AllSessions), nil
	}

	return nil, &apperrors.ErrInvalidRange{
		Range:  token,
		Reason: "expected s14, s14-17, 14-17 or 14",
	}
}

func yearBounds(token, startStr, endStr string, maxYear int) (int, int, error) {
	start, _ := strconv.Atoi(startStr)
	end, _ := strconv.Atoi(endStr)
	if end < start {
		return 0, 0, &apperrors.ErrInvalidRange{Range: token, Reason: "end year is before start year"}
	}
	if end > maxYear {
		return 0, 0, &apperrors.ErrInvalidRange{Range: token, Reason: fmt.Sprintf("year %02d is in the future", end)}
	}
	return start, end, nil
}

func expand(start, end int, sessions []models.Session) []models.SessionToken {
	tokens := make([]models.SessionToken, 0, (end-start+1)*len(sessions))
	for year := start; year <= end; year++ {
		for _, s := range sessions {
			tokens = append(tokens, models.SessionToken{Session: s, Year: fmt.Sprintf("%02d", year)})
		}
	}
	return tokens
}
