package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/util"
	"github.com/ppiankov/paperdigest/internal/worker"
	"go.uber.org/zap"
)

// DefaultArxivBaseURL is the arXiv Atom query endpoint
const DefaultArxivBaseURL = "https://export.arxiv.org/api/query"

// maxFeedBytes caps the Atom response read from arXiv
const maxFeedBytes = 16 << 20

// ErrEmptyQuery is returned when no search expression is given
var ErrEmptyQuery = errors.New("empty arXiv query")

// ArxivSource queries the arXiv Atom API
type ArxivSource struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewArxivSource creates an arXiv source from config. Robots checks are
// skipped when cfg.CheckRobots is false.
func NewArxivSource(cfg model.SourceConfig, logger *zap.Logger) *ArxivSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultArxivBaseURL
	}

	s := &ArxivSource{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		logger:     logging.OrNop(logger),
	}
	if cfg.CheckRobots {
		s.robots = util.NewRobotsChecker(cfg.UserAgent, timeout)
	}
	return s
}

// WithLimiter paces requests per host. A robots.txt crawl delay, when
// present, replaces the limiter's rate for the arXiv host.
func (s *ArxivSource) WithLimiter(l *worker.Limiter) *ArxivSource {
	s.limiter = l
	return s
}

// Name returns the source identifier
func (s *ArxivSource) Name() string { return "arxiv" }

// QueryURL renders the request URL for q, applying defaults
func (s *ArxivSource) QueryURL(q Query) (string, error) {
	expr := strings.TrimSpace(q.Expression)
	if expr == "" {
		return "", ErrEmptyQuery
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortSubmittedDate
	}
	sortOrder := q.SortOrder
	if sortOrder == "" {
		sortOrder = OrderDescending
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse arXiv base URL: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", expr)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", sortBy)
	params.Set("sortOrder", sortOrder)
	base.RawQuery = params.Encode()

	return base.String(), nil
}

// Fetch runs q against arXiv and returns papers in feed order, deduplicated by ID
func (s *ArxivSource) Fetch(ctx context.Context, q Query) ([]*model.Paper, error) {
	queryURL, err := s.QueryURL(q)
	if err != nil {
		return nil, err
	}

	host, err := worker.HostKey(queryURL)
	if err != nil {
		return nil, fmt.Errorf("parse query URL: %w", err)
	}

	if s.robots != nil {
		delay, err := s.robots.Check(ctx, queryURL)
		if err != nil {
			return nil, err
		}
		if delay > 0 && s.limiter != nil {
			s.logger.Debug("Honoring arXiv crawl delay", zap.Duration("delay", delay))
			s.limiter.SetInterval(host, delay)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, host); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/atom+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse arXiv response: %w", err)
	}

	papers := make([]*model.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		p := entry.paper()
		if p == nil {
			s.logger.Debug("Skipping arXiv entry without id")
			continue
		}
		papers = append(papers, p)
	}

	deduped := Dedup(papers)
	if dropped := len(papers) - len(deduped); dropped > 0 {
		s.logger.Warn("arXiv returned duplicate entries", zap.Int("dropped", dropped))
	}
	return deduped, nil
}

// arXiv Atom feed structures
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

func (e arxivEntry) paper() *model.Paper {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return nil
	}

	p := &model.Paper{
		ID:       id,
		Title:    collapseSpace(e.Title),
		Abstract: collapseSpace(e.Summary),
		Link:     id,
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, l := range e.Links {
		if l.Rel == "alternate" && l.Href != "" {
			p.Link = l.Href
			break
		}
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Published = t
	}
	return p
}

// collapseSpace folds the hard line wrapping arXiv applies to titles and abstracts
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
