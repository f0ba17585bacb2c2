package digest

import (
	"fmt"
	"strings"

	"github.com/ppiankov/paperdigest/internal/model"
)

// Sentinels for narrative calls that produce nothing usable
const (
	DiscussionUnavailable  = "Discussion not available."
	ExplanationUnavailable = "Explanation not available."
	SpotlightUnavailable   = "Spotlight explanation not available."
	JokeUnavailable        = "Joke not available."
	NewsletterUnavailable  = "Newsletter creation failed."
)

// JokeExamples seed the punchline prompt
var JokeExamples = []string{
	"Why did the statistician bring a ladder to the bar? Because they heard the drinks were on the house!",
	"Why don’t statisticians play hide-and-seek? Because good luck hiding from someone who always finds the mean.",
	"How do statisticians keep warm in winter? By gathering more samples!",
}

// DiscussionPrompt asks for a paragraph relating the papers of one category
func DiscussionPrompt(b *model.Bucket) string {
	summaries := make([]string, 0, len(b.Items))
	for _, e := range b.Items {
		summaries = append(summaries, e.Summary.Text())
	}
	return fmt.Sprintf("Write a short paragraph discussing the following papers in the %s category and how they relate to each other:\n%s",
		b.Label, strings.Join(summaries, "\n"))
}

// ExplanationPrompt asks why a paper belongs to its category
func ExplanationPrompt(p *model.Paper, label model.Label) string {
	return fmt.Sprintf("Explain why the paper '%s' is categorized under '%s'.", p.Title, label)
}

// SpotlightPrompt asks for the standout paper of the issue
func SpotlightPrompt(buckets []*model.Bucket) string {
	return "Out of all the papers listed, which one is the most important and interesting, and why? Write a paragraph explaining your choice.\n" +
		paperListing(buckets)
}

// JokePrompt asks for a punchline inspired by the issue
func JokePrompt(buckets []*model.Bucket) string {
	return fmt.Sprintf("Create a joke based on the information in the newsletter using these examples for inspiration:\n%s\n%s",
		strings.Join(JokeExamples, "\n"), paperListing(buckets))
}

// NewsletterPrompt asks the service to write the whole issue
func NewsletterPrompt(buckets []*model.Bucket) string {
	var b strings.Builder
	b.WriteString("Create a newsletter catered to statistics researchers and PhDs based on the following summaries and categories:\n")
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "%s:\n", bucket.Label)
		for _, e := range bucket.Items {
			fmt.Fprintf(&b, "Title: %s\nAuthors: %s\nLink: %s\nSummary: %s\n\n",
				e.Paper.Title, e.Paper.AuthorList(), e.Paper.Link, e.Summary.Text())
		}
	}
	b.WriteString("Ensure the newsletter is detailed and formatted for a professional audience.")
	return b.String()
}

func paperListing(buckets []*model.Bucket) string {
	var b strings.Builder
	b.WriteString("Papers:\n")
	for _, bucket := range buckets {
		for _, e := range bucket.Items {
			fmt.Fprintf(&b, "- %s (%s): %s\n", e.Paper.Title, bucket.Label, e.Summary.Text())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
