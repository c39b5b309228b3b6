package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

var (
	subjectOnly      = regexp.MustCompile(`^\d{4}$`)
	subjectSep       = regexp.MustCompile(`^\d{4}_$`)
	subjectSession   = regexp.MustCompile(`^\d{4}_[mswy]$`)
	subjectYear      = regexp.MustCompile(`^\d{4}_[mswy]\d{2}$`)
	subjectYearSep   = regexp.MustCompile(`^\d{4}_[mswy]\d{2}_$`)
	partialPaperType = regexp.MustCompile(`^(\d{4}_[mswy]\d{2}_)(.+)$`)
)

// completer offers commands, then paper codes for get and subject codes for getmany.
// It implements readline.AutoCompleter.
type completer struct {
	commands func() []string
	subjects func() []string
	now      func() time.Time
}

func newCompleter(commands, subjects func() []string, now func() time.Time) *completer {
	return &completer{commands: commands, subjects: subjects, now: now}
}

// Do returns the suffixes that complete the word under the cursor and that word's length
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	words := strings.Fields(head)
	word := ""
	if len(words) > 0 && !strings.HasSuffix(head, " ") {
		word = words[len(words)-1]
		words = words[:len(words)-1]
	}

	var candidates []string
	switch {
	case len(words) == 0:
		candidates = withPrefix(c.commands(), word)
	case strings.HasPrefix(word, "-"):
	case words[0] == "get" && positional(words) == 0:
		candidates = suggestPaperCode(word, c.subjects(), c.now())
	case words[0] == "getmany" && positional(words) == 0:
		candidates = withPrefix(c.subjects(), word)
	}

	suffixes := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		if strings.HasPrefix(cand, strings.ToLower(word)) || strings.HasPrefix(cand, word) {
			suffixes = append(suffixes, []rune(cand[len(word):]))
		}
	}
	return suffixes, len([]rune(word))
}

// positional counts the non-flag arguments after the command name
func positional(words []string) int {
	n := 0
	for _, w := range words[1:] {
		if !strings.HasPrefix(w, "-") {
			n++
		}
	}
	return n
}

func withPrefix(all []string, prefix string) []string {
	var out []string
	for _, s := range all {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// suggestPaperCode completes a partially typed paper code one component at a time
func suggestPaperCode(text string, subjects []string, now time.Time) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)

	switch {
	case subjectOnly.MatchString(text):
		return []string{text + "_"}
	case subjectSep.MatchString(text):
		out := make([]string, 0, len(models.AllSessions))
		for _, s := range models.AllSessions {
			out = append(out, text+s.String())
		}
		return out
	case subjectSession.MatchString(text):
		last := now.Year() % 100
		out := make([]string, 0, last+1)
		for y := 0; y <= last; y++ {
			out = append(out, fmt.Sprintf("%s%02d", text, y))
		}
		return out
	case subjectYear.MatchString(text):
		return []string{text + "_"}
	case subjectYearSep.MatchString(text):
		var out []string
		for _, t := range models.AllPaperTypes() {
			out = append(out, text+t)
		}
		return out
	}

	if m := partialPaperType.FindStringSubmatch(text); m != nil {
		prefix, partial := m[1], m[2]
		for _, t := range models.AllPaperTypes() {
			if t == partial && models.PaperTypeHasNumber(t) {
				return []string{text + "_"}
			}
		}
		var out []string
		for _, t := range models.AllPaperTypes() {
			if strings.HasPrefix(t, partial) {
				out = append(out, prefix+t)
			}
		}
		return out
	}

	return withPrefix(subjects, text)
}
