// Package digest turns a categorized collection into a newsletter issue.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Digest is one composed newsletter issue
type Digest struct {
	Subject    string        `json:"subject"`
	HTML       string        `json:"-"`
	Text       string        `json:"-"`
	Papers     int           `json:"papers"`
	Categories []model.Label `json:"categories"`
	Calls      int           `json:"narrative_calls"`
	Failures   int           `json:"narrative_failures"`
}

// Composer builds digests. Narrative sections come from the generation
// service; each failed call is replaced by that section's sentinel.
type Composer struct {
	provider llm.Provider
	cfg      model.DigestConfig
	subject  string
	logger   *zap.Logger
}

// NewComposer creates a composer. A nil provider is allowed when
// cfg.Narrative is false and the style is template.
func NewComposer(provider llm.Provider, cfg model.DigestConfig, subject string, logger *zap.Logger) *Composer {
	if cfg.Style == "" {
		cfg.Style = model.DigestTemplate
	}
	if cfg.Title == "" {
		cfg.Title = "The Probability Post"
	}
	if subject == "" {
		subject = cfg.Title
	}
	return &Composer{provider: provider, cfg: cfg, subject: subject, logger: logging.OrNop(logger)}
}

// Compose renders coll. Only non-empty buckets appear, in collection order.
func (c *Composer) Compose(ctx context.Context, coll *model.CategorizedCollection) (*Digest, error) {
	if coll == nil {
		return nil, errors.New("digest: nil collection")
	}

	buckets := coll.NonEmpty()
	d := &Digest{Subject: c.subject, Papers: coll.Total()}
	for _, b := range buckets {
		d.Categories = append(d.Categories, b.Label)
	}

	var doc *html.Node
	switch c.cfg.Style {
	case model.DigestGenerated:
		doc = c.generated(ctx, d, buckets)
	case model.DigestTemplate:
		doc = c.template(ctx, d, buckets)
	default:
		return nil, fmt.Errorf("unknown digest style: %s", c.cfg.Style)
	}

	rendered, err := render(doc)
	if err != nil {
		return nil, fmt.Errorf("render digest: %w", err)
	}
	d.HTML = rendered

	text, err := PlainText(rendered)
	if err != nil {
		return nil, fmt.Errorf("render plain text: %w", err)
	}
	d.Text = text

	return d, nil
}

func (c *Composer) template(ctx context.Context, d *Digest, buckets []*model.Bucket) *html.Node {
	doc, body := newDocument(c.cfg.Title)

	appendElement(body, atom.H1, c.cfg.Title)
	if c.cfg.Greeting != "" {
		appendElement(body, atom.P, c.cfg.Greeting)
	}
	appendElement(body, atom.P, fmt.Sprintf("Welcome to the latest edition of %s, where we bring you cutting-edge research from the world of statistics. Let's dive into the exciting new papers that are shaping our field!", c.cfg.Title))

	if len(buckets) == 0 {
		appendElement(body, atom.P, "No new papers this issue.")
	}

	for _, b := range buckets {
		appendElement(body, atom.H2, string(b.Label))
		if c.cfg.Narrative {
			appendElement(body, atom.P, c.narrate(ctx, d, "discussion", DiscussionPrompt(b), DiscussionUnavailable))
		}

		for _, e := range b.Items {
			appendElement(body, atom.H3, e.Paper.Title)
			appendField(body, "Authors", e.Paper.AuthorList())
			appendLinkField(body, "Link", e.Paper.Link)
			appendField(body, "Summary", e.Summary.Text())
			if c.cfg.Narrative {
				explanation := c.narrate(ctx, d, "explanation", ExplanationPrompt(e.Paper, b.Label), ExplanationUnavailable)
				appendField(body, "Categorization Explanation", explanation)
			}
		}
	}

	if c.cfg.Narrative && len(buckets) > 0 {
		spotlight := c.narrate(ctx, d, "spotlight", SpotlightPrompt(buckets), SpotlightUnavailable)
		appendElement(body, atom.H2, "The Spotlight")
		appendElement(body, atom.P, strings.ReplaceAll(spotlight, "\n", " "))

		joke := c.narrate(ctx, d, "joke", JokePrompt(buckets), JokeUnavailable)
		appendElement(body, atom.H2, "The Punchline")
		appendElement(body, atom.P, joke)
	}

	appendElement(body, atom.P, "That is all for this issue. Stay tuned for our next issue and stay curious and keep crunching those numbers!")
	signoff := appendElement(body, atom.P, "Best regards,")
	signoff.AppendChild(element(atom.Br))
	signoff.AppendChild(textNode(c.cfg.Title + " Team"))

	return doc
}

func (c *Composer) generated(ctx context.Context, d *Digest, buckets []*model.Bucket) *html.Node {
	doc, body := newDocument(c.cfg.Title)
	appendElement(body, atom.H1, c.cfg.Title)
	appendParagraphs(body, c.narrate(ctx, d, "newsletter", NewsletterPrompt(buckets), NewsletterUnavailable))
	return doc
}

// narrate makes one narrative call, substituting sentinel on failure
func (c *Composer) narrate(ctx context.Context, d *Digest, section, prompt, sentinel string) string {
	d.Calls++
	res := llm.Call(ctx, c.provider, llm.UserPrompt(prompt))
	if !res.OK() {
		d.Failures++
		c.logger.Warn("Narrative section not available",
			zap.String("section", section),
			zap.String("failure", res.Failure.String()),
			zap.Error(res.Err))
		return sentinel
	}
	return res.Text
}
