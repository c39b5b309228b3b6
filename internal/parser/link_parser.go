package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// LinkParser implements the Parser interface for the anchors of an archive listing page
type LinkParser struct{}

// NewLinkParser creates a new link parser instance
func NewLinkParser() *LinkParser {
	return &LinkParser{}
}

// ParseHtml extracts every anchor with an href, in document order
func (p *LinkParser) ParseHtml(body io.Reader) ([]models.Link, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := make([]models.Link, 0)
	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			logger.Debug().Int("linkIndex", i).Msg("Skipping anchor with empty href")
			return
		}
		links = append(links, models.Link{
			Text: strings.Join(strings.Fields(a.Text()), " "),
			Href: href,
		})
	})

	logger.Debug().Int("links", len(links)).Msg("Extracted links from listing page")
	return links, nil
}
