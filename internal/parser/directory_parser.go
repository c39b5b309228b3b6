package parser

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// categoryPatterns are tried in order against each href of the site index
var categoryPatterns = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{models.CategoryALevel, regexp.MustCompile(`(?i)a[- ]?level`)},
	{models.CategoryIGCSE, regexp.MustCompile(`(?i)igcse`)},
	{models.CategoryOLevel, regexp.MustCompile(`(?i)o[- ]?level`)},
}

var subjectCodePattern = regexp.MustCompile(`\d{4}`)

// CategoryParser finds the index page of each exam category on the site home page
type CategoryParser struct{}

// NewCategoryParser creates a new category parser instance
func NewCategoryParser() *CategoryParser {
	return &CategoryParser{}
}

// ParseHtml maps category → path segment. When several links match a category the last one wins.
func (p *CategoryParser) ParseHtml(body io.Reader) (map[string]string, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	categories := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		segment := pathSegment(href)
		for _, cp := range categoryPatterns {
			if cp.pattern.MatchString(segment) {
				categories[cp.category] = segment
				logger.Debug().Str("category", cp.category).Str("href", href).Msg("Found exam category")
				return
			}
		}
	})

	return categories, nil
}

// SubjectParser finds the subject pages listed on a category index page
type SubjectParser struct{}

// NewSubjectParser creates a new subject parser instance
func NewSubjectParser() *SubjectParser {
	return &SubjectParser{}
}

// ParseHtml maps each four digit subject code found in an href to that href's last path segment
func (p *SubjectParser) ParseHtml(body io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	subjects := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		segment := lastSegment(href)
		code := subjectCodePattern.FindString(segment)
		if code == "" {
			return
		}
		subjects[code] = segment
	})

	logger := config.GetLogger()
	logger.Debug().Int("subjects", len(subjects)).Msg("Extracted subjects from category page")
	return subjects, nil
}

// pathSegment returns the unescaped path of href without leading or trailing slashes
func pathSegment(href string) string {
	if u, err := url.Parse(href); err == nil {
		href = u.Path
	}
	return strings.Trim(href, "/")
}

// lastSegment returns the final path element of href
func lastSegment(href string) string {
	p := pathSegment(href)
	if p == "" {
		return ""
	}
	return path.Base(p)
}
