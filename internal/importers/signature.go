package importers

import "github.com/mrlokans/kindle-digest/internal/entities"

// signaturePrefixLen is how many runes of highlight text participate in the
// dedup key. Full-text equality is too strict against re-exports that differ
// in trailing whitespace or encoding; title plus a text prefix is stable
// across repeated imports while still telling two highlights from the same
// book apart.
const signaturePrefixLen = 100

// Signature is the dedup key for a highlight. Comparable, so it can be used
// directly as a map key.
type Signature struct {
	Title      string
	TextPrefix string
}

// BuildSignature derives the dedup signature for a highlight. The prefix is
// counted in runes, not bytes, so multi-byte text dedups identically across
// re-exports.
func BuildSignature(h entities.Highlight) Signature {
	prefix := h.Text
	if runes := []rune(h.Text); len(runes) > signaturePrefixLen {
		prefix = string(runes[:signaturePrefixLen])
	}
	return Signature{Title: h.Title, TextPrefix: prefix}
}
