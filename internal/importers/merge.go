package importers

import (
	"time"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

// Merge appends incoming highlights to existing ones, skipping any whose
// signature is already present (in the existing set or earlier in this
// call). Accepted highlights get AddedAt stamped with the merge wall-clock
// time, NOT the time the highlight was made on the device. Existing records
// are never overwritten, so merging the same file twice adds nothing.
func Merge(existing, incoming []entities.Highlight, now func() time.Time) ([]entities.Highlight, int) {
	seen := make(map[Signature]struct{}, len(existing))
	for _, h := range existing {
		seen[BuildSignature(h)] = struct{}{}
	}

	merged := make([]entities.Highlight, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	added := 0
	for _, h := range incoming {
		sig := BuildSignature(h)
		if _, ok := seen[sig]; ok {
			continue
		}

		h.AddedAt = now().Format(time.RFC3339)
		merged = append(merged, h)
		seen[sig] = struct{}{}
		added++
	}

	return merged, added
}
