package bookshelf

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
)

// Section is a heading in a chapter document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractSections returns the ATX headings of a markdown note in document
// order. YAML front matter and fenced code are skipped. Wiki links in a
// heading are reduced to their display text.
//
// Anchors are slugs of the heading text. An anchor already taken gets the
// lowest free numeric suffix.
func ExtractSections(markdown string) []Section {
	var sections []Section
	taken := make(map[string]bool)

	var fence string
	for i, line := range noteBody(markdown) {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if f := openingFence(trimmed); f != "" {
			fence = f
			continue
		}

		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := displayText(m[2])
		if title == "" {
			continue
		}
		sections = append(sections, Section{
			Level:  len(m[1]),
			Title:  title,
			Anchor: freeAnchor(taken, title, i),
		})
	}

	return sections
}

// noteBody splits markdown into lines, dropping a leading front matter block.
// An unterminated block is kept as body.
func noteBody(markdown string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(markdown))
	sc.Buffer(make([]byte, 0, 64*1024), len(markdown)+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return lines
	}
	for i := 1; i < len(lines); i++ {
		if end := strings.TrimSpace(lines[i]); end == "---" || end == "..." {
			return lines[i+1:]
		}
	}
	return lines
}

// openingFence returns the fence marker a line opens, or "".
func openingFence(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

// displayText resolves [[target|alias]] links to what a reader sees.
func displayText(s string) string {
	s = wikiLinkRe.ReplaceAllStringFunc(s, func(link string) string {
		m := wikiLinkRe.FindStringSubmatch(link)
		if m[2] != "" {
			return m[2]
		}
		return m[1]
	})
	return strings.TrimSpace(s)
}

func freeAnchor(taken map[string]bool, title string, line int) string {
	base := Slugify(title)
	if base == "" {
		base = "section-" + strconv.Itoa(line+1)
	}
	anchor := base
	for n := 1; taken[anchor]; n++ {
		anchor = base + "-" + strconv.Itoa(n)
	}
	taken[anchor] = true
	return anchor
}
