package entities

import "sort"

// Highlight is a single Kindle highlight as it lives in the JSON store.
// Field names are part of the on-disk format and must not change.
type Highlight struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	Location string `json:"location,omitempty"` // "start-end" Kindle location range
	Page     string `json:"page,omitempty"`
	AddedAt  string `json:"added_at,omitempty"` // ISO-8601, stamped at merge time
	Theme    string `json:"theme,omitempty"`    // attached later by the classifier
}

// DefaultAuthor is used when the title line carries no trailing
// parenthesized author.
const DefaultAuthor = "Unknown Author"

// BookKey identifies the book a highlight belongs to for display grouping.
func (h Highlight) BookKey() string {
	return h.Title + " by " + h.Author
}

// BookCount holds per-book highlight statistics.
type BookCount struct {
	Book  string
	Count int
}

// CountByBook returns per-book highlight counts, most-highlighted first.
// Ties keep a stable alphabetical order so reports don't jitter between runs.
func CountByBook(highlights []Highlight) []BookCount {
	counts := make(map[string]int)
	for _, h := range highlights {
		counts[h.BookKey()]++
	}

	books := make([]BookCount, 0, len(counts))
	for book, count := range counts {
		books = append(books, BookCount{Book: book, Count: count})
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].Count != books[j].Count {
			return books[i].Count > books[j].Count
		}
		return books[i].Book < books[j].Book
	})

	return books
}
