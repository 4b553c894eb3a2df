// Package service owns the digest workflows that span parsing, storage,
// sampling, rendering, classification and delivery.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/kindle-digest/internal/classifier"
	"github.com/mrlokans/kindle-digest/internal/delivery"
	"github.com/mrlokans/kindle-digest/internal/digest"
	"github.com/mrlokans/kindle-digest/internal/entities"
	"github.com/mrlokans/kindle-digest/internal/sampler"
)

// ErrEmptyStore indicates there is nothing to send yet; import first.
var ErrEmptyStore = errors.New("highlight store is empty, run an import first")

// Store is the persistence boundary the service reads and (for theme
// backfill) writes.
type Store interface {
	Load() ([]entities.Highlight, error)
	Save(highlights []entities.Highlight) error
}

// SendResult describes one delivered digest.
type SendResult struct {
	DeliveryID string
	Selected   int
	Total      int
}

// BookTheme is one classified book from a backfill run.
type BookTheme struct {
	Title  string
	Author string
	Theme  string
}

// BackfillResult summarizes a theme backfill run.
type BackfillResult struct {
	Books   []BookTheme
	Updated int
}

// Service wires the digest workflows over injected collaborators.
type Service struct {
	store      Store
	sampler    *sampler.Sampler
	sender     delivery.Sender
	classifier classifier.Classifier
	count      int
	to         string
	now        func() time.Time
}

// New creates a digest service. count is the number of highlights per
// digest and to the destination address.
func New(store Store, smp *sampler.Sampler, sender delivery.Sender, count int, to string) *Service {
	return &Service{
		store:   store,
		sampler: smp,
		sender:  sender,
		count:   count,
		to:      to,
		now:     time.Now,
	}
}

// WithClassifier attaches a theme classifier, enabling BackfillThemes.
func (s *Service) WithClassifier(c classifier.Classifier) *Service {
	s.classifier = c
	return s
}

// WithClock substitutes the date source used for rendering. Tests use this.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Preview samples and renders a digest without sending it. A zero count
// falls back to the configured digest size.
func (s *Service) Preview(count int) (digest.Document, int, error) {
	if count <= 0 {
		count = s.count
	}

	pool, err := s.store.Load()
	if err != nil {
		return digest.Document{}, 0, err
	}

	selection := s.sampler.Sample(pool, count)
	return digest.Render(selection, s.now()), len(selection), nil
}

// SendDigest runs the daily job: load, sample, render, deliver.
func (s *Service) SendDigest(ctx context.Context) (SendResult, error) {
	pool, err := s.store.Load()
	if err != nil {
		return SendResult{}, err
	}
	if len(pool) == 0 {
		return SendResult{}, ErrEmptyStore
	}

	log.Printf("Loaded %d highlights from %d books", len(pool), len(entities.CountByBook(pool)))

	selection := s.sampler.Sample(pool, s.count)
	doc := digest.Render(selection, s.now())

	id, err := s.sender.Send(ctx, s.to, doc)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send digest: %w", err)
	}

	return SendResult{DeliveryID: id, Selected: len(selection), Total: len(pool)}, nil
}

// BackfillThemes classifies every book that still has unthemed highlights
// and writes the themes back to the store. Each distinct (title, author)
// pair is classified once, no matter how many highlights it has.
func (s *Service) BackfillThemes(ctx context.Context) (BackfillResult, error) {
	if s.classifier == nil {
		return BackfillResult{}, errors.New("no classifier configured")
	}

	highlights, err := s.store.Load()
	if err != nil {
		return BackfillResult{}, err
	}

	type bookID struct{ title, author string }
	themes := make(map[bookID]string)
	var order []bookID
	for _, h := range highlights {
		if h.Theme != "" {
			continue
		}
		id := bookID{h.Title, h.Author}
		if _, ok := themes[id]; !ok {
			themes[id] = ""
			order = append(order, id)
		}
	}

	if len(order) == 0 {
		return BackfillResult{}, nil
	}

	var result BackfillResult
	for _, id := range order {
		theme, err := s.classifier.Classify(ctx, id.title, id.author)
		if err != nil {
			return BackfillResult{}, fmt.Errorf("failed to classify %q: %w", id.title, err)
		}
		themes[id] = theme
		result.Books = append(result.Books, BookTheme{Title: id.title, Author: id.author, Theme: theme})
	}

	for i := range highlights {
		if highlights[i].Theme != "" {
			continue
		}
		highlights[i].Theme = themes[bookID{highlights[i].Title, highlights[i].Author}]
		result.Updated++
	}

	if err := s.store.Save(highlights); err != nil {
		return BackfillResult{}, fmt.Errorf("failed to save themed highlights: %w", err)
	}

	return result, nil
}
