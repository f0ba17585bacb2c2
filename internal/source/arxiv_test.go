package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/util"
	"github.com/ppiankov/paperdigest/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>arXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2406.00001v1</id>
    <published>2024-06-01T17:59:59Z</published>
    <title>Granger Causality
      in Extremes</title>
    <summary>  We introduce a rigorous
  framework.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name> Karl Pearson </name></author>
    <link href="http://arxiv.org/abs/2406.00001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2406.00001v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2406.00002v2</id>
    <published>not a date</published>
    <title>Nii-C</title>
    <summary>Sampling posteriors.</summary>
    <author><name>Someone Else</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2406.00001v1</id>
    <title>Duplicate</title>
    <summary>dup</summary>
  </entry>
  <entry>
    <title>No id</title>
  </entry>
</feed>`

func arxivServer(t *testing.T, robots string, seen *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			if robots == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = fmt.Fprint(w, robots)
		case "/api/query":
			if seen != nil {
				*seen = r.URL.Query()
			}
			assert.Equal(t, "paperdigest-test/1.0", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/atom+xml")
			_, _ = fmt.Fprint(w, testFeed)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testConfig(baseURL string) model.SourceConfig {
	return model.SourceConfig{
		BaseURL:     baseURL + "/api/query",
		UserAgent:   "paperdigest-test/1.0",
		Timeout:     5 * time.Second,
		CheckRobots: true,
	}
}

func TestArxivSource_Fetch(t *testing.T) {
	var params url.Values
	server := arxivServer(t, "User-agent: *\nAllow: /\n", &params)
	defer server.Close()

	src := NewArxivSource(testConfig(server.URL), nil)
	papers, err := src.Fetch(context.Background(), Query{Expression: "cat:stat.*", MaxResults: 10})
	require.NoError(t, err)

	assert.Equal(t, "cat:stat.*", params.Get("search_query"))
	assert.Equal(t, "10", params.Get("max_results"))
	assert.Equal(t, "submittedDate", params.Get("sortBy"))
	assert.Equal(t, "descending", params.Get("sortOrder"))

	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "http://arxiv.org/abs/2406.00001v1", p.ID)
	assert.Equal(t, "Granger Causality in Extremes", p.Title)
	assert.Equal(t, "We introduce a rigorous framework.", p.Abstract)
	assert.Equal(t, []string{"Ada Lovelace", "Karl Pearson"}, p.Authors)
	assert.Equal(t, "http://arxiv.org/abs/2406.00001v1", p.Link)
	assert.Equal(t, time.Date(2024, 6, 1, 17, 59, 59, 0, time.UTC), p.Published)

	assert.Equal(t, "http://arxiv.org/abs/2406.00002v2", papers[1].ID)
	assert.Equal(t, papers[1].ID, papers[1].Link, "link falls back to id")
	assert.True(t, papers[1].Published.IsZero())
}

func TestArxivSource_RobotsDisallow(t *testing.T) {
	server := arxivServer(t, "User-agent: paperdigest-test\nDisallow: /api\n", nil)
	defer server.Close()

	_, err := NewArxivSource(testConfig(server.URL), nil).Fetch(context.Background(), Query{Expression: "cat:stat.*"})
	assert.True(t, errors.Is(err, util.ErrDisallowed), "got %v", err)
}

func TestArxivSource_RobotsSkipped(t *testing.T) {
	server := arxivServer(t, "User-agent: *\nDisallow: /\n", nil)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CheckRobots = false
	papers, err := NewArxivSource(cfg, nil).Fetch(context.Background(), Query{Expression: "cat:stat.*"})
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}

func TestArxivSource_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CheckRobots = false
	_, err := NewArxivSource(cfg, nil).Fetch(context.Background(), Query{Expression: "cat:stat.*"})
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestArxivSource_BadXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<feed><entry>")
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CheckRobots = false
	_, err := NewArxivSource(cfg, nil).Fetch(context.Background(), Query{Expression: "cat:stat.*"})
	assert.ErrorContains(t, err, "parse arXiv response")
}

func TestArxivSource_QueryURL(t *testing.T) {
	src := NewArxivSource(model.SourceConfig{}, nil)

	_, err := src.QueryURL(Query{Expression: "  "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	raw, err := src.QueryURL(Query{Expression: "cat:stat.ME AND all:bayes", MaxResults: 3, SortBy: SortRelevance, SortOrder: OrderAscending})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "export.arxiv.org", u.Host)
	assert.Equal(t, "cat:stat.ME AND all:bayes", u.Query().Get("search_query"))
	assert.Equal(t, "3", u.Query().Get("max_results"))
	assert.Equal(t, "relevance", u.Query().Get("sortBy"))
	assert.Equal(t, "ascending", u.Query().Get("sortOrder"))
}

func TestStatic(t *testing.T) {
	a := &model.Paper{ID: "a"}
	b := &model.Paper{ID: "b"}
	s := &Static{Papers: []*model.Paper{a, nil, b, a}}

	papers, err := s.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []*model.Paper{a, b}, papers)

	papers, _ = s.Fetch(context.Background(), Query{MaxResults: 1})
	assert.Equal(t, []*model.Paper{a}, papers)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Fetch(ctx, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryFromConfig(t *testing.T) {
	q := QueryFromConfig(model.DefaultConfig().Source)
	assert.Equal(t, Query{Expression: "cat:stat.*", MaxResults: 10, SortBy: "submittedDate", SortOrder: "descending"}, q)
}

func TestArxivSource_WithLimiter(t *testing.T) {
	server := arxivServer(t, "User-agent: *\nAllow: /\n", nil)
	defer server.Close()

	limiter := worker.NewLimiter(0.001, 1)
	src := NewArxivSource(testConfig(server.URL), nil).WithLimiter(limiter)

	papers, err := src.Fetch(context.Background(), Query{Expression: "cat:stat.*"})
	require.NoError(t, err)
	assert.Len(t, papers, 2)

	// The fetch consumed the host's only token
	host, err := worker.HostKey(server.URL)
	require.NoError(t, err)
	assert.False(t, limiter.Allow(host))
}
