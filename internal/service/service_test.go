package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle-digest/internal/digest"
	"github.com/mrlokans/kindle-digest/internal/entities"
	"github.com/mrlokans/kindle-digest/internal/sampler"
)

type stubStore struct {
	highlights []entities.Highlight
	loadErr    error
	saved      []entities.Highlight
}

func (s *stubStore) Load() ([]entities.Highlight, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.highlights, nil
}

func (s *stubStore) Save(highlights []entities.Highlight) error {
	s.saved = highlights
	return nil
}

type stubSender struct {
	to      string
	doc     digest.Document
	err     error
	sends   int
	replyID string
}

func (s *stubSender) Send(_ context.Context, to string, doc digest.Document) (string, error) {
	s.sends++
	s.to = to
	s.doc = doc
	if s.err != nil {
		return "", s.err
	}
	return s.replyID, nil
}

type stubClassifier struct {
	themes map[string]string
	calls  []string
	err    error
}

func (s *stubClassifier) Classify(_ context.Context, title, _ string) (string, error) {
	s.calls = append(s.calls, title)
	if s.err != nil {
		return "", s.err
	}
	if theme, ok := s.themes[title]; ok {
		return theme, nil
	}
	return "General", nil
}

func seededSampler() *sampler.Sampler {
	return sampler.New(rand.New(rand.NewSource(42)))
}

func testPool() []entities.Highlight {
	return []entities.Highlight{
		{Title: "Deep Work", Author: "Cal Newport", Text: "Focus is the new IQ."},
		{Title: "Deep Work", Author: "Cal Newport", Text: "Clarity about what matters."},
		{Title: "Meditations", Author: "Marcus Aurelius", Text: "The universe is change."},
	}
}

func TestService_SendDigest(t *testing.T) {
	store := &stubStore{highlights: testPool()}
	sender := &stubSender{replyID: "email_123"}
	svc := New(store, seededSampler(), sender, 2, "reader@example.com").
		WithClock(func() time.Time { return time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC) })

	result, err := svc.SendDigest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "email_123", result.DeliveryID)
	assert.Equal(t, 2, result.Selected)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, "reader@example.com", sender.to)
	assert.Equal(t, "📚 Your Daily Kindle Highlights - January 2", sender.doc.Subject)
}

func TestService_SendDigest_EmptyStore(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{}
	svc := New(store, seededSampler(), sender, 5, "reader@example.com")

	_, err := svc.SendDigest(context.Background())

	require.ErrorIs(t, err, ErrEmptyStore)
	assert.Equal(t, 0, sender.sends)
}

func TestService_SendDigest_StoreErrorPropagates(t *testing.T) {
	store := &stubStore{loadErr: errors.New("store is corrupt")}
	sender := &stubSender{}
	svc := New(store, seededSampler(), sender, 5, "reader@example.com")

	_, err := svc.SendDigest(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, sender.sends)
}

func TestService_Preview_DefaultsToConfiguredCount(t *testing.T) {
	store := &stubStore{highlights: testPool()}
	svc := New(store, seededSampler(), &stubSender{}, 2, "reader@example.com")

	doc, selected, err := svc.Preview(0)

	require.NoError(t, err)
	assert.Equal(t, 2, selected)
	assert.NotEmpty(t, doc.HTML)
}

func TestService_BackfillThemes_ClassifiesEachBookOnce(t *testing.T) {
	store := &stubStore{highlights: testPool()}
	cls := &stubClassifier{themes: map[string]string{
		"Deep Work":   "Productivity",
		"Meditations": "Philosophy",
	}}
	svc := New(store, seededSampler(), &stubSender{}, 5, "reader@example.com").WithClassifier(cls)

	result, err := svc.BackfillThemes(context.Background())

	require.NoError(t, err)
	// Two distinct books, one classification each.
	assert.Equal(t, []string{"Deep Work", "Meditations"}, cls.calls)
	assert.Equal(t, 3, result.Updated)
	require.Len(t, store.saved, 3)
	assert.Equal(t, "Productivity", store.saved[0].Theme)
	assert.Equal(t, "Productivity", store.saved[1].Theme)
	assert.Equal(t, "Philosophy", store.saved[2].Theme)
}

func TestService_BackfillThemes_SkipsAlreadyThemed(t *testing.T) {
	highlights := testPool()
	highlights[0].Theme = "Productivity"
	highlights[1].Theme = "Productivity"
	store := &stubStore{highlights: highlights}
	cls := &stubClassifier{themes: map[string]string{"Meditations": "Philosophy"}}
	svc := New(store, seededSampler(), &stubSender{}, 5, "reader@example.com").WithClassifier(cls)

	result, err := svc.BackfillThemes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Meditations"}, cls.calls)
	assert.Equal(t, 1, result.Updated)
}

func TestService_BackfillThemes_NothingToDo(t *testing.T) {
	highlights := testPool()
	for i := range highlights {
		highlights[i].Theme = "General"
	}
	store := &stubStore{highlights: highlights}
	cls := &stubClassifier{}
	svc := New(store, seededSampler(), &stubSender{}, 5, "reader@example.com").WithClassifier(cls)

	result, err := svc.BackfillThemes(context.Background())

	require.NoError(t, err)
	assert.Empty(t, cls.calls)
	assert.Zero(t, result.Updated)
	// No pointless rewrite when nothing changed.
	assert.Nil(t, store.saved)
}

func TestService_BackfillThemes_RequiresClassifier(t *testing.T) {
	svc := New(&stubStore{}, seededSampler(), &stubSender{}, 5, "reader@example.com")

	_, err := svc.BackfillThemes(context.Background())

	require.Error(t, err)
}
