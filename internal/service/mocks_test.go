package service

import (
	"context"
	"fmt"
	"sync"

	"notehub-server/internal/domain"
)

type mockUserRepository struct {
	users map[string]*domain.User

	// findByIDErr, when set, is returned by every FindByID call.
	findByIDErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == domain.NormalizeEmail(email) {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

// mockNoteRepo stores copies and enforces revisions the way CouchDB does.
type mockNoteRepo struct {
	mu      sync.Mutex
	notes   map[string]*domain.Note
	revs    int
	updates int

	// beforeUpdate runs ahead of each Update, letting tests slip in a
	// concurrent writer.
	beforeUpdate func()
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes: make(map[string]*domain.Note),
	}
}

func copyNote(n *domain.Note) *domain.Note {
	out := *n
	out.SharedWith = append([]string(nil), n.SharedWith...)
	return &out
}

func (m *mockNoteRepo) nextRev() string {
	m.revs++
	return fmt.Sprintf("%d-rev", m.revs)
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note.DocType = domain.DocTypeNote
	note.Rev = m.nextRev()
	m.notes[note.ID] = copyNote(note)
	return nil
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, exists := m.notes[id]; exists {
		return copyNote(n), nil
	}
	return nil, domain.ErrNoteNotFound
}

func (m *mockNoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var notes []*domain.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, copyNote(n))
		}
	}
	return notes, nil
}

func (m *mockNoteRepo) ListSharedWith(ctx context.Context, email string) ([]*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var notes []*domain.Note
	for _, n := range m.notes {
		if n.IsSharedWith(email) {
			notes = append(notes, copyNote(n))
		}
	}
	return notes, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	if m.beforeUpdate != nil {
		hook := m.beforeUpdate
		m.beforeUpdate = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates++
	stored, exists := m.notes[note.ID]
	if !exists {
		return domain.ErrNoteNotFound
	}
	if stored.Rev != note.Rev {
		return domain.ErrRevisionConflict
	}

	note.Rev = m.nextRev()
	m.notes[note.ID] = copyNote(note)
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.notes[note.ID]
	if !exists {
		return domain.ErrNoteNotFound
	}
	if stored.Rev != note.Rev {
		return domain.ErrRevisionConflict
	}

	delete(m.notes, note.ID)
	return nil
}

type mockSuggester struct {
	text  string
	err   error
	calls int
}

func (m *mockSuggester) Suggest(ctx context.Context, content string) (string, error) {
	m.calls++
	return m.text, m.err
}

type notification struct {
	kind   string
	noteID string
	emails []string
}

type mockNotifier struct {
	sent []notification
}

func (m *mockNotifier) NoteShared(ctx context.Context, note *domain.Note, emails []string) error {
	m.sent = append(m.sent, notification{kind: "shared", noteID: note.ID, emails: emails})
	return nil
}

func (m *mockNotifier) NoteUnshared(ctx context.Context, note *domain.Note, email string) error {
	m.sent = append(m.sent, notification{kind: "unshared", noteID: note.ID, emails: []string{email}})
	return nil
}

func (m *mockNotifier) NoteUpdated(ctx context.Context, note *domain.Note) error {
	m.sent = append(m.sent, notification{kind: "updated", noteID: note.ID, emails: note.SharedWith})
	return nil
}

func (m *mockNotifier) NoteDeleted(ctx context.Context, note *domain.Note) error {
	m.sent = append(m.sent, notification{kind: "deleted", noteID: note.ID, emails: note.SharedWith})
	return nil
}
