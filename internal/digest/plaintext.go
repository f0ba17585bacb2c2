package digest

import (
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "tr": true,
}

var headingElements = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true}

// PlainText renders an HTML document as readable text: one line per block,
// a blank line around headings, head/script/style content dropped
func PlainText(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head", "script", "style", "noscript":
				return
			case "br":
				buf.WriteString("\n")
				return
			}
			if headingElements[n.Data] {
				buf.WriteString("\n\n")
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
			if headingElements[n.Data] {
				buf.WriteString("\n")
			}
		}
	}
	walk(doc)

	return tidyLines(buf.String()), nil
}

// tidyLines folds whitespace within lines and runs of blank lines into one
func tidyLines(s string) string {
	var out []string
	blank := true
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
