package kindle

import (
	"regexp"
	"strings"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

// SkipReason explains why a clippings block did not produce a highlight.
// Skips are expected and counted, never treated as errors.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipEmpty    SkipReason = "empty"
	SkipBookmark SkipReason = "bookmark"
	SkipNote     SkipReason = "note"
)

// Stats aggregates skip counts for a single parse run.
type Stats struct {
	Empty     int
	Bookmarks int
	Notes     int
}

func (s *Stats) record(reason SkipReason) {
	switch reason {
	case SkipEmpty:
		s.Empty++
	case SkipBookmark:
		s.Bookmarks++
	case SkipNote:
		s.Notes++
	}
}

// Skipped returns the total number of skipped blocks.
func (s Stats) Skipped() int {
	return s.Empty + s.Bookmarks + s.Notes
}

const entrySeparator = "=========="

var (
	// Author is the parenthesized group anchored at the end of the title
	// line: "Deep Work (Cal Newport)". Mid-title parentheses as in
	// "Book (Annotated) Edition" must not match, hence the anchor.
	authorPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

	// Matches "location 812-815" and "location 812" in lines like
	// "- Your Highlight on page 42 | location 812-815 | Added on ..."
	locationPattern = regexp.MustCompile(`(?i)location\s+(\d+)(?:-(\d+))?`)

	pagePattern = regexp.MustCompile(`(?i)page\s+(\d+)`)
)

// Parser parses the Kindle "My Clippings.txt" export format.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Split breaks raw clippings content into candidate blocks in document
// order. Blocks that are empty after trimming are dropped and counted.
func (p *Parser) Split(content string) ([]string, Stats) {
	var stats Stats
	var blocks []string

	for _, segment := range strings.Split(content, entrySeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			stats.Empty++
			continue
		}
		blocks = append(blocks, segment)
	}

	return blocks, stats
}

// ParseEntry converts one block into a highlight. A nil highlight with a
// non-empty reason means the block was skipped; malformed blocks never
// abort the surrounding import.
func (p *Parser) ParseEntry(block string) (*entities.Highlight, SkipReason) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return nil, SkipEmpty
	}

	// Second line: "- Your Highlight on page 42 | location 812-815 | Added on ..."
	// Bookmarks and notes are recognized before the length check below:
	// a bookmark block trims down to just title + metadata, and it should
	// still count as a bookmark rather than an empty entry.
	metadataLine := strings.TrimSpace(lines[1])

	if strings.Contains(metadataLine, "Your Bookmark") {
		return nil, SkipBookmark
	}
	if strings.Contains(metadataLine, "Your Note") {
		return nil, SkipNote
	}

	if len(lines) < 3 {
		return nil, SkipEmpty
	}

	// First line: "Book Title (Author)". Some exports carry a BOM artifact
	// in front of every title line, not just the first one.
	titleLine := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), "\ufeff"))

	title := titleLine
	author := entities.DefaultAuthor
	if m := authorPattern.FindStringSubmatchIndex(titleLine); m != nil {
		author = strings.TrimSpace(titleLine[m[2]:m[3]])
		title = strings.TrimSpace(titleLine[:m[0]])
	}

	var location string
	if m := locationPattern.FindStringSubmatch(metadataLine); m != nil {
		start, end := m[1], m[2]
		if end == "" {
			end = start
		}
		location = start + "-" + end
	}

	var page string
	if m := pagePattern.FindStringSubmatch(metadataLine); m != nil {
		page = m[1]
	}

	// Body starts after the blank separator line that follows the metadata.
	var textLines []string
	for _, line := range lines[3:] {
		line = strings.TrimSpace(line)
		if line != "" {
			textLines = append(textLines, line)
		}
	}
	text := strings.Join(textLines, "\n")

	// Legacy variant: body immediately follows the metadata line.
	if text == "" {
		text = strings.TrimSpace(lines[2])
	}

	if text == "" {
		return nil, SkipEmpty
	}

	return &entities.Highlight{
		Title:    title,
		Author:   author,
		Text:     text,
		Location: location,
		Page:     page,
	}, SkipNone
}

// Parse splits and parses a whole clippings export. AddedAt is left unset;
// the merge step stamps it when a highlight actually enters the store.
func (p *Parser) Parse(content string) ([]entities.Highlight, Stats) {
	blocks, stats := p.Split(content)

	var highlights []entities.Highlight
	for _, block := range blocks {
		highlight, reason := p.ParseEntry(block)
		if highlight == nil {
			stats.record(reason)
			continue
		}
		highlights = append(highlights, *highlight)
	}

	return highlights, stats
}

// ParseFile reads, decodes and parses a clippings file.
func (p *Parser) ParseFile(path string) ([]entities.Highlight, Stats, error) {
	content, err := ReadFile(path)
	if err != nil {
		return nil, Stats{}, err
	}

	highlights, stats := p.Parse(content)
	return highlights, stats, nil
}
