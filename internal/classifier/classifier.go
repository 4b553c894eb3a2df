// Package classifier assigns a theme to a book via zero-shot
// classification. The core never calls it directly; it only fills the
// optional theme slot on stored highlights.
package classifier

import "context"

// Themes is the fixed label set books are classified into.
var Themes = []string{
	"Philosophy",
	"Psychology",
	"Finance & Investing",
	"Software Engineering",
	"Productivity",
	"History",
	"Science",
	"Business",
	"Fiction",
	"Biography",
}

// FallbackTheme is returned when classification confidence is too low.
const FallbackTheme = "General"

// confidenceFloor is the minimum confidence required to accept a theme.
const confidenceFloor = 0.3

// Classifier maps a book to a theme label. Implementations are constructed
// once by the caller and passed in, so tests can substitute a stub.
type Classifier interface {
	Classify(ctx context.Context, title, author string) (string, error)
}

// isKnownTheme reports whether the label belongs to the fixed theme set.
func isKnownTheme(label string) bool {
	for _, theme := range Themes {
		if theme == label {
			return true
		}
	}
	return false
}
