package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/cache"
	"github.com/nkzzz-xD/EasyPastPapers/internal/client"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

// SpecimenFolder is the archive's year segment shared by every specimen paper
const SpecimenFolder = "Specimen Papers"

// FastPathResult is the outcome of guessing <code>.pdf without reading a listing
type FastPathResult int

const (
	// FastPathMiss means the guess was wrong or the network failed; fall back to the listing
	FastPathMiss FastPathResult = iota
	// FastPathHit means the file is on disk
	FastPathHit
	// FastPathHard means a local failure that a listing lookup cannot fix
	FastPathHard
)

// String returns the metric label of the result
func (r FastPathResult) String() string {
	switch r {
	case FastPathHit:
		return "hit"
	case FastPathHard:
		return "hard"
	default:
		return "miss"
	}
}

func classifyFastPath(res *models.DownloadResult) FastPathResult {
	if res.Succeeded() {
		return FastPathHit
	}
	switch res.ErrKind {
	case models.ErrorKindNetwork, models.ErrorKindHTTPStatus:
		return FastPathMiss
	default:
		return FastPathHard
	}
}

// PageCache holds parsed listing pages keyed by subject and year or specimen token
type PageCache = cache.Cache[models.PageKey, *models.ListingPage]

// Resolver turns paper codes into archive URLs and local paths, then downloads them
type Resolver struct {
	cfg        *config.Config
	client     client.Client
	downloader PaperDownloader
	pages      PageCache
}

// NewResolver creates a resolver. pages should live as long as the shell session.
func NewResolver(cfg *config.Config, c client.Client, downloader PaperDownloader, pages PageCache) *Resolver {
	return &Resolver{
		cfg:        cfg,
		client:     c,
		downloader: downloader,
		pages:      pages,
	}
}

// YearSegment returns the archive folder of a session and two-digit year
func YearSegment(session models.Session, year string) string {
	if session.IsSpecimen() {
		return SpecimenFolder
	}
	return "20" + year
}

// subjectTarget is a subject located on the archive together with one of its year folders
type subjectTarget struct {
	loc     models.SubjectLocation
	root    string // listing root URL of the subject
	yearSeg string
}

func (r *Resolver) locate(subjectCode string, session models.Session, year string) (subjectTarget, error) {
	loc, ok := r.cfg.Directory().Lookup(subjectCode)
	if !ok {
		return subjectTarget{}, &apperrors.ErrUnknownSubjectCode{Code: subjectCode}
	}
	root, err := client.JoinURL(r.cfg.BaseURL, loc.CategorySegment, loc.SubjectSegment)
	if err != nil {
		return subjectTarget{}, err
	}
	return subjectTarget{loc: loc, root: root, yearSeg: YearSegment(session, year)}, nil
}

func (r *Resolver) folder(t subjectTarget, session models.Session, sessionFolders bool) string {
	elems := []string{r.cfg.DownloadFolder, t.loc.Category, t.loc.SubjectSegment, t.yearSeg}
	if sessionFolders {
		elems = append(elems, session.Name())
	}
	return filepath.Join(elems...)
}

// Resolve locates one paper and downloads it, first by guessing its URL and
// then by searching the listing page
func (r *Resolver) Resolve(ctx context.Context, code models.PaperCode, opts models.GetOptions) (*models.GetResult, error) {
	logger := config.GetLogger()

	target, err := r.locate(code.SubjectCode, code.Session, code.FirstYear())
	if err != nil {
		return nil, err
	}
	term := code.SearchTerm()
	folder := r.folder(target, code.Session, opts.SessionFolders)

	file := models.ResolvedFile{
		Code:        code,
		Folder:      folder,
		Category:    target.loc.Category,
		SubjectPath: target.loc.SubjectSegment,
	}

	guessName := term + ".pdf"
	guessURL, err := client.JoinURL(target.root, target.yearSeg, guessName)
	if err != nil {
		return nil, err
	}
	fast := r.downloader.Download(ctx, models.DownloadRequest{
		URL:      guessURL,
		Folder:   folder,
		FileName: guessName,
		Policy:   opts.Policy,
		Quiet:    true,
	})
	verdict := classifyFastPath(fast)
	metrics.FastPathTotal.WithLabelValues(verdict.String()).Inc()
	logger.Debug().Str("url", guessURL).Str("result", verdict.String()).Msg("Direct download attempt")

	switch verdict {
	case FastPathHit, FastPathHard:
		file.URL = guessURL
		file.FileName = guessName
		file.Path = fast.Path
		return &models.GetResult{File: file, Download: fast, FastPath: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := models.NewPageKey(code.SubjectCode, code.Session, code.FirstYear())
	page, err := r.listingPage(ctx, key, target)
	if err != nil {
		return nil, err
	}

	link, ok := findLink(page.Links, term)
	if !ok {
		return nil, &apperrors.ErrFileNotFound{Code: term, Site: r.cfg.BaseURL}
	}
	fileURL, err := client.ResolveLink(page.URL, link.Href)
	if err != nil {
		return nil, err
	}
	fileName := fileNameOf(fileURL)
	if fileName == "" {
		fileName = guessName
	}

	file.URL = fileURL
	file.FileName = fileName
	file.Path = filepath.Join(folder, fileName)

	res := r.downloader.Download(ctx, models.DownloadRequest{
		URL:      fileURL,
		Folder:   folder,
		FileName: fileName,
		Policy:   opts.Policy,
	})
	return &models.GetResult{File: file, Download: res}, nil
}

// ResolveMany downloads every paper of subjectCode published under each token.
// Tokens are handled one at a time; a token whose listing cannot be read is
// recorded and the run continues. Only cancellation stops it early.
func (r *Resolver) ResolveMany(ctx context.Context, subjectCode string, tokens []models.SessionToken, opts models.GetOptions) (*models.BulkResult, error) {
	logger := config.GetLogger()

	if _, ok := r.cfg.Directory().Lookup(subjectCode); !ok {
		return nil, &apperrors.ErrUnknownSubjectCode{Code: subjectCode}
	}

	result := &models.BulkResult{SubjectCode: subjectCode}
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tr := models.TokenResult{Token: token}
		target, err := r.locate(subjectCode, token.Session, token.Year)
		if err != nil {
			return result, err
		}

		page, err := r.listingPage(ctx, models.NewPageKey(subjectCode, token.Session, token.Year), target)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			tr.Err = err
			result.Tokens = append(result.Tokens, tr)
			continue
		}

		pattern := subjectCode + "_" + token.String()
		folder := r.folder(target, token.Session, opts.SessionFolders)
		for _, fileURL := range matchingFiles(page, pattern) {
			tr.Matched++
			res := r.downloader.Download(ctx, models.DownloadRequest{
				URL:      fileURL,
				Folder:   folder,
				FileName: fileNameOf(fileURL),
				Policy:   opts.Policy,
			})
			switch res.Outcome {
			case models.OutcomeDownloaded:
				tr.Downloaded++
			case models.OutcomeAlreadyExists:
				tr.Skipped++
			default:
				tr.Failed++
			}
		}

		logger.Info().
			Str("subject", subjectCode).
			Str("token", token.String()).
			Int("matched", tr.Matched).
			Int("downloaded", tr.Downloaded).
			Msg("Session processed")
		result.Tokens = append(result.Tokens, tr)
	}
	return result, nil
}

// listingPage returns the cached page for key or fetches the year folder,
// falling back to the subject root. Whichever page was read is cached under key.
func (r *Resolver) listingPage(ctx context.Context, key models.PageKey, t subjectTarget) (*models.ListingPage, error) {
	if page, ok := r.pages.Get(key); ok {
		return page, nil
	}

	logger := config.GetLogger()
	yearURL, err := client.JoinURL(t.root, t.yearSeg)
	if err != nil {
		return nil, err
	}

	page, err := r.client.FetchListing(ctx, yearURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug().Err(err).Str("url", yearURL).Msg("Year listing unavailable, reading subject root")
		page, err = r.client.FetchListing(ctx, t.root)
		if err != nil {
			return nil, fmt.Errorf("failed to read listing for %s: %w", key, err)
		}
	}

	r.pages.Set(key, page)
	return page, nil
}

// findLink returns the first link whose href contains term, else the first
// whose text does
func findLink(links []models.Link, term string) (models.Link, bool) {
	for _, l := range links {
		if strings.Contains(l.Href, term) {
			return l, true
		}
	}
	for _, l := range links {
		if strings.Contains(l.Text, term) {
			return l, true
		}
	}
	return models.Link{}, false
}

// matchingFiles resolves every link whose href contains pattern, dropping
// duplicates while keeping document order
func matchingFiles(page *models.ListingPage, pattern string) []string {
	logger := config.GetLogger()
	seen := make(map[string]struct{})
	var urls []string
	for _, l := range page.Links {
		if !strings.Contains(l.Href, pattern) {
			continue
		}
		u, err := client.ResolveLink(page.URL, l.Href)
		if err != nil {
			logger.Debug().Err(err).Str("href", l.Href).Msg("Skipping unparseable link")
			continue
		}
		if _, dup := seen[u]; dup || fileNameOf(u) == "" {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// fileNameOf returns the unescaped last path element of a URL, or "" for a directory
func fileNameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	return path.Base(u.Path)
}

// IsLookupError reports whether err is a recoverable lookup failure the user can fix by
// correcting the input
func IsLookupError(err error) bool {
	return errors.Is(err, &apperrors.ErrUnknownSubjectCode{}) || errors.Is(err, &apperrors.ErrFileNotFound{})
}
