// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography renders reference lists for a set of papers in
// BibTeX, APA, MLA, or IEEE style. The citation styles are deliberately
// simplified journal-article renderings, not full CSL processors.
package bibliography

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/researchflow/researchflow/pkg/types"
)

// Style selects the output citation format.
type Style string

const (
	StyleBibTeX Style = "bibtex"
	StyleAPA    Style = "apa"
	StyleMLA    Style = "mla"
	StyleIEEE   Style = "ieee"
)

// ParseStyle validates a user-supplied style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBibTeX:
		return StyleBibTeX, nil
	case StyleAPA:
		return StyleAPA, nil
	case StyleMLA:
		return StyleMLA, nil
	case StyleIEEE:
		return StyleIEEE, nil
	}
	return "", fmt.Errorf("unknown bibliography style %q (want bibtex, apa, mla, or ieee)", s)
}

// Reference is the flattened metadata a citation entry is built from.
// Container, volume, issue, pages, and DOI come from provider metadata
// when available and are simply omitted from the entry when empty.
type Reference struct {
	ID        string
	Title     string
	Authors   []string
	Year      *int
	Container string
	Volume    string
	Issue     string
	Pages     string
	DOI       string
	URL       string
}

// FromPaper builds a Reference from a search result, mapping the venue
// to the container title.
func FromPaper(p types.Paper) Reference {
	return Reference{
		ID:        p.ID,
		Title:     p.Title,
		Authors:   p.AuthorNames(),
		Year:      p.Year,
		Container: p.Venue,
		URL:       p.URL,
	}
}

// Bibliography is a rendered reference list. Entries holds each formatted
// entry separately; Text joins them with blank lines.
type Bibliography struct {
	Style   Style    `json:"style" yaml:"style"`
	Entries []string `json:"entries" yaml:"entries"`
	Text    string   `json:"text" yaml:"text"`
}

// Generate deduplicates references by ID (first occurrence wins, entries
// without an ID are always kept) and renders them in the given style.
func Generate(refs []Reference, style Style) (Bibliography, error) {
	seen := make(map[string]struct{})
	unique := make([]Reference, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
		}
		unique = append(unique, r)
	}

	var entries []string
	switch style {
	case StyleBibTeX:
		entries = formatBibTeX(unique)
	case StyleAPA:
		entries = formatAPA(unique)
	case StyleMLA:
		entries = formatMLA(unique)
	case StyleIEEE:
		entries = formatIEEE(unique)
	default:
		return Bibliography{}, fmt.Errorf("unknown bibliography style %q", style)
	}

	return Bibliography{
		Style:   style,
		Entries: entries,
		Text:    strings.Join(entries, "\n\n"),
	}, nil
}

// splitName splits "First Middle Last" into given names and surname.
// A single token is treated as a bare surname.
func splitName(full string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// initials turns "Jane A." into "J. A.".
func initials(first string) string {
	var parts []string
	for _, f := range strings.Fields(first) {
		r := []rune(f)
		parts = append(parts, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(parts, " ")
}

func yearString(y *int, unknown string) string {
	if y == nil {
		return unknown
	}
	return strconv.Itoa(*y)
}

func authorsAPA(authors []string) string {
	var formatted []string
	for _, name := range authors {
		first, last := splitName(name)
		if last == "" {
			continue
		}
		if ini := initials(first); ini != "" {
			formatted = append(formatted, last+", "+ini)
		} else {
			formatted = append(formatted, last)
		}
	}
	switch len(formatted) {
	case 0:
		return ""
	case 1:
		return formatted[0]
	}
	return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
}

func authorsMLA(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	first, last := splitName(authors[0])
	main := authors[0]
	if first != "" && last != "" {
		main = last + ", " + first
	}
	switch len(authors) {
	case 1:
		return main
	case 2:
		return main + ", and " + authors[1]
	}
	return main + ", et al."
}

func authorsIEEE(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	fmtName := func(name string) string {
		first, last := splitName(name)
		if last == "" {
			return name
		}
		if ini := initials(first); ini != "" {
			return ini + " " + last
		}
		return last
	}
	if len(authors) == 1 {
		return fmtName(authors[0])
	}
	parts := make([]string, 0, len(authors))
	for _, name := range authors[:len(authors)-1] {
		parts = append(parts, fmtName(name))
	}
	parts = append(parts, "and "+fmtName(authors[len(authors)-1]))
	return strings.Join(parts, ", ")
}

// bibtexKey builds lastnameYearFirstword keys, suffixing a counter from 2
// upward when a key repeats within the batch.
func bibtexKey(r Reference, used map[string]struct{}) string {
	last := "anon"
	if len(r.Authors) > 0 {
		if _, l := splitName(r.Authors[0]); l != "" {
			last = strings.ToLower(l)
		}
	}
	year := "nd"
	if r.Year != nil {
		year = strconv.Itoa(*r.Year)
	}
	firstWord := "title"
	if fields := strings.Fields(r.Title); len(fields) > 0 {
		firstWord = strings.ToLower(fields[0])
	}

	base := last + year + firstWord
	key := base
	for i := 2; ; i++ {
		if _, taken := used[key]; !taken {
			break
		}
		key = base + strconv.Itoa(i)
	}
	used[key] = struct{}{}
	return key
}

func formatBibTeX(refs []Reference) []string {
	entries := make([]string, 0, len(refs))
	used := make(map[string]struct{})

	for _, r := range refs {
		lines := []string{
			fmt.Sprintf("@article{%s,", bibtexKey(r, used)),
			fmt.Sprintf("  title   = {%s},", r.Title),
		}
		if len(r.Authors) > 0 {
			lines = append(lines, fmt.Sprintf("  author  = {%s},", strings.Join(r.Authors, " and ")))
		}
		if r.Container != "" {
			lines = append(lines, fmt.Sprintf("  journal = {%s},", r.Container))
		}
		if r.Year != nil {
			lines = append(lines, fmt.Sprintf("  year    = {%d},", *r.Year))
		}
		if r.Volume != "" {
			lines = append(lines, fmt.Sprintf("  volume  = {%s},", r.Volume))
		}
		if r.Issue != "" {
			lines = append(lines, fmt.Sprintf("  number  = {%s},", r.Issue))
		}
		if r.Pages != "" {
			lines = append(lines, fmt.Sprintf("  pages   = {%s},", r.Pages))
		}
		if r.DOI != "" {
			lines = append(lines, fmt.Sprintf("  doi     = {%s},", r.DOI))
		}
		if r.URL != "" {
			lines = append(lines, fmt.Sprintf("  url     = {%s},", r.URL))
		}
		lines = append(lines, "}")
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return entries
}

func formatAPA(refs []Reference) []string {
	entries := make([]string, 0, len(refs))
	for _, r := range refs {
		authors := authorsAPA(r.Authors)
		year := "(" + yearString(r.Year, "n.d.") + ")."
		title := strings.TrimRight(r.Title, ".")

		var volumeIssue string
		if r.Volume != "" {
			volumeIssue = r.Volume
			if r.Issue != "" {
				volumeIssue += "(" + r.Issue + ")"
			}
		}
		var link string
		if r.DOI != "" {
			link = " https://doi.org/" + r.DOI
		} else if r.URL != "" {
			link = " " + r.URL
		}

		entry := authors + " " + year + " " + title + "."
		if r.Container != "" {
			entry += " " + r.Container
		}
		if volumeIssue != "" {
			entry += ", " + volumeIssue
		}
		if r.Pages != "" {
			entry += ", " + r.Pages
		}
		entry += "." + link
		entries = append(entries, strings.TrimSpace(entry))
	}
	return entries
}

func formatMLA(refs []Reference) []string {
	entries := make([]string, 0, len(refs))
	for _, r := range refs {
		var pieces []string
		if authors := authorsMLA(r.Authors); authors != "" {
			pieces = append(pieces, authors+".")
		}
		pieces = append(pieces, "\""+strings.TrimRight(r.Title, ".")+".\"")
		if r.Container != "" {
			pieces = append(pieces, r.Container+",")
		}
		if vi := volumeIssueList(r); vi != "" {
			pieces = append(pieces, vi+",")
		}
		if r.Pages != "" {
			pieces = append(pieces, "pp. "+r.Pages+",")
		}
		pieces = append(pieces, yearString(r.Year, "n.d.")+".")
		if link := refLink(r); link != "" {
			pieces = append(pieces, link)
		}
		entries = append(entries, strings.Join(pieces, " "))
	}
	return entries
}

func formatIEEE(refs []Reference) []string {
	entries := make([]string, 0, len(refs))
	for i, r := range refs {
		pieces := []string{fmt.Sprintf("[%d]", i+1)}
		if authors := authorsIEEE(r.Authors); authors != "" {
			pieces = append(pieces, authors+",")
		}
		if r.Title != "" {
			pieces = append(pieces, "\""+strings.TrimRight(r.Title, ".")+",\"")
		}
		if r.Container != "" {
			pieces = append(pieces, r.Container+",")
		}
		if vi := volumeIssueList(r); vi != "" {
			pieces = append(pieces, vi+",")
		}
		if r.Pages != "" {
			pieces = append(pieces, "pp. "+r.Pages+",")
		}
		pieces = append(pieces, yearString(r.Year, "n.d.")+".")
		if link := refLink(r); link != "" {
			pieces = append(pieces, link)
		}
		entries = append(entries, strings.Join(pieces, " "))
	}
	return entries
}

func volumeIssueList(r Reference) string {
	var parts []string
	if r.Volume != "" {
		parts = append(parts, "vol. "+r.Volume)
	}
	if r.Issue != "" {
		parts = append(parts, "no. "+r.Issue)
	}
	return strings.Join(parts, ", ")
}

// refLink prefers the paper URL and falls back to a DOI resolver link,
// matching the MLA/IEEE renderings.
func refLink(r Reference) string {
	if r.URL != "" {
		return r.URL
	}
	if r.DOI != "" {
		return "https://doi.org/" + r.DOI
	}
	return ""
}
