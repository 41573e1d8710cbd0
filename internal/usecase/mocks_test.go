package usecase

import (
	"context"
	"sort"
	"sync"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memFileRepo is a small in-memory implementation used by unit tests.
type memFileRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.FileRecord
	insertErr error // used by tests to simulate storage failures
	forceDup  int   // number of inserts to reject as duplicates
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{store: make(map[string]*model.FileRecord)}
}

func (m *memFileRepo) Insert(ctx context.Context, rec *model.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.forceDup > 0 {
		m.forceDup--
		return domain.ErrDuplicateIdentifier
	}
	if _, exists := m.store[rec.ID]; exists {
		return domain.ErrDuplicateIdentifier
	}
	cp := *rec
	m.store[rec.ID] = &cp
	return nil
}

func (m *memFileRepo) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memFileRepo) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.FileRecord
	for _, rec := range m.store {
		if rec.OwnerID == ownerID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memFileRepo) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *memFileRepo) DistinctOwners(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := make(map[int64]struct{})
	for _, rec := range m.store {
		set[rec.OwnerID] = struct{}{}
	}
	owners := make([]int64, 0, len(set))
	for id := range set {
		owners = append(owners, id)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners, nil
}

// mockBot records outbound calls; individual funcs can be overridden per test.
type mockBot struct {
	mu sync.Mutex

	sentMessages []sentMessage
	edits        []editedMessage

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type editedMessage struct {
	ChatID    int64
	MessageID int
	View      adapter.View
}

func (b *mockBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if b.SendMessageFunc != nil {
		return b.SendMessageFunc(ctx, chatID, text)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sentMessages = append(b.sentMessages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (b *mockBot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sentMessages = append(b.sentMessages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (b *mockBot) EditMessage(ctx context.Context, chatID int64, messageID int, view adapter.View) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edits = append(b.edits, editedMessage{ChatID: chatID, MessageID: messageID, View: view})
	return nil
}

func (b *mockBot) SendMedia(ctx context.Context, chatID int64, kind model.FileKind, fileHandle, caption string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sentMessages = append(b.sentMessages, sentMessage{ChatID: chatID, Text: caption})
	return nil
}
