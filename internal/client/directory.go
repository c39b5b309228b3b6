package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

// DiscoverDirectory reads the home page for exam categories, then each category
// page for its subjects. A category whose page cannot be read is skipped with a
// warning; the call fails only when no category could be read at all.
func (c *client) DiscoverDirectory(ctx context.Context) (models.SubjectDirectory, error) {
	logger := config.GetLogger()

	home, err := c.fetchPage(ctx, c.baseURL)
	if err != nil {
		metrics.ListingFetchesTotal.WithLabelValues("error").Inc()
		return models.SubjectDirectory{}, fmt.Errorf("failed to read archive home page: %w", err)
	}
	metrics.ListingFetchesTotal.WithLabelValues("success").Inc()

	categories, err := parseSinglePage(c.categoryParser, home)
	if err != nil {
		return models.SubjectDirectory{}, fmt.Errorf("failed to parse archive home page: %w", err)
	}
	if len(categories) == 0 {
		return models.SubjectDirectory{}, fmt.Errorf("%w (%s)", ErrNoCategories, c.baseURL)
	}

	dir := models.SubjectDirectory{
		ExamPageLinks: categories,
		Subjects:      make(map[string]map[string]string, len(categories)),
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var lastErr error
	for _, category := range names {
		if err := ctx.Err(); err != nil {
			return models.SubjectDirectory{}, err
		}

		pageURL, err := JoinURL(c.baseURL, categories[category])
		if err != nil {
			return models.SubjectDirectory{}, err
		}

		pg, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			metrics.ListingFetchesTotal.WithLabelValues("error").Inc()
			logger.Warn().Err(err).Str("category", category).Msg("Failed to read category page")
			lastErr = err
			continue
		}
		metrics.ListingFetchesTotal.WithLabelValues("success").Inc()

		subjects, err := parseSinglePage(c.subjectParser, pg)
		if err != nil {
			logger.Warn().Err(err).Str("category", category).Msg("Failed to parse category page")
			lastErr = err
			continue
		}

		dir.Subjects[category] = subjects
		logger.Info().Str("category", category).Int("subjects", len(subjects)).Msg("Discovered subjects")
	}

	if len(dir.Subjects) == 0 {
		return models.SubjectDirectory{}, fmt.Errorf("failed to read any category page: %w", lastErr)
	}

	return dir, nil
}
