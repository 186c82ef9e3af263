package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notehub-server/internal/domain"
	"notehub-server/internal/repository"

	"github.com/google/uuid"
)

// maxWriteAttempts bounds the re-read/re-apply loop when CouchDB rejects a stale revision.
const maxWriteAttempts = 3

// Suggester produces suggestion text for a piece of note content.
type Suggester interface {
	Suggest(ctx context.Context, content string) (string, error)
}

// Notifier is told about note changes that other users may care about.
type Notifier interface {
	NoteShared(ctx context.Context, note *domain.Note, emails []string) error
	NoteUnshared(ctx context.Context, note *domain.Note, email string) error
	NoteUpdated(ctx context.Context, note *domain.Note) error
	NoteDeleted(ctx context.Context, note *domain.Note) error
}

type NoteService struct {
	repo      repository.NoteRepository
	userRepo  repository.UserRepository
	suggester Suggester
	notifier  Notifier
}

func NewNoteService(
	repo repository.NoteRepository,
	userRepo repository.UserRepository,
	suggester Suggester,
	notifier Notifier,
) *NoteService {
	return &NoteService{
		repo:      repo,
		userRepo:  userRepo,
		suggester: suggester,
		notifier:  notifier,
	}
}

func (s *NoteService) Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	now := time.Now()
	note := &domain.Note{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    req.Content,
		OwnerID:    ownerID,
		SharedWith: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return domain.NewNoteResponse(note), nil
}

// Get returns a note to its owner or to a user it is shared with.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.NoteResponse, error) {
	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if note.OwnerID == userID {
		return domain.NewNoteResponse(note), nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	if !note.IsSharedWith(user.Email) {
		return nil, domain.ErrForbidden
	}

	return domain.NewNoteResponse(note), nil
}

func (s *NoteService) List(ctx context.Context, userID string) (*domain.NoteList, error) {
	own, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.repo.ListSharedWith(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	list := &domain.NoteList{
		OwnNotes:    make([]*domain.NoteResponse, 0, len(own)),
		SharedNotes: make([]*domain.SharedNoteResponse, 0, len(shared)),
	}

	for _, n := range own {
		list.OwnNotes = append(list.OwnNotes, domain.NewNoteResponse(n))
	}

	owners := make(map[string]*domain.User)
	for _, n := range shared {
		if n.OwnerID == userID {
			continue
		}

		owner, ok := owners[n.OwnerID]
		if !ok {
			owner, err = s.userRepo.FindByID(ctx, n.OwnerID)
			if err != nil {
				if !errors.Is(err, domain.ErrUserNotFound) {
					return nil, err
				}
				owner = &domain.User{Name: "Unknown"}
			}
			owners[n.OwnerID] = owner
		}

		list.SharedNotes = append(list.SharedNotes, &domain.SharedNoteResponse{
			NoteResponse: *domain.NewNoteResponse(n),
			OwnerName:    owner.Name,
			OwnerEmail:   owner.Email,
		})
	}

	return list, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}

	changed := false
	note, err := s.mutateOwned(ctx, userID, noteID, func(n *domain.Note) bool {
		changed = false
		if req.Title != nil && strings.TrimSpace(*req.Title) != n.Title {
			n.Title = strings.TrimSpace(*req.Title)
			changed = true
		}
		if req.Content != nil && *req.Content != n.Content {
			n.Content = *req.Content
			changed = true
		}
		return changed
	})
	if err != nil {
		return nil, err
	}

	if changed && len(note.SharedWith) > 0 {
		s.notify("note_updated", func(n Notifier) error { return n.NoteUpdated(ctx, note) })
	}

	return domain.NewNoteResponse(note), nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		note, err := s.repo.FindByID(ctx, noteID)
		if err != nil {
			return err
		}

		if note.OwnerID != userID {
			return domain.ErrForbidden
		}

		err = s.repo.Delete(ctx, note)
		if errors.Is(err, domain.ErrRevisionConflict) {
			continue
		}
		if err != nil {
			return err
		}

		if len(note.SharedWith) > 0 {
			s.notify("note_deleted", func(n Notifier) error { return n.NoteDeleted(ctx, note) })
		}
		return nil
	}

	return fmt.Errorf("failed to delete note after %d attempts: %w", maxWriteAttempts, domain.ErrRevisionConflict)
}

// Share adds emails to the note's share list. Emails already present and the
// owner's own address are ignored.
func (s *NoteService) Share(ctx context.Context, userID, noteID string, emails []string) (*domain.NoteResponse, error) {
	var candidates []string
	for _, e := range emails {
		if e = domain.NormalizeEmail(e); e != "" {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: at least one email is required", domain.ErrValidation)
	}

	candidates, err := s.withoutCaller(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}

	var added []string
	note, err := s.mutateOwned(ctx, userID, noteID, func(n *domain.Note) bool {
		added = n.AddShares(candidates)
		return len(added) > 0
	})
	if err != nil {
		return nil, err
	}

	if len(added) > 0 {
		s.notify("note_shared", func(n Notifier) error { return n.NoteShared(ctx, note, added) })
	}

	return domain.NewNoteResponse(note), nil
}

// Unshare removes a single email from the note's share list. Removing an
// email that is not present is a no-op.
func (s *NoteService) Unshare(ctx context.Context, userID, noteID, email string) (*domain.NoteResponse, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	removed := false
	note, err := s.mutateOwned(ctx, userID, noteID, func(n *domain.Note) bool {
		removed = n.RemoveShare(email)
		return removed
	})
	if err != nil {
		return nil, err
	}

	if removed {
		s.notify("note_unshared", func(n Notifier) error { return n.NoteUnshared(ctx, note, email) })
	}

	return domain.NewNoteResponse(note), nil
}

func (s *NoteService) Suggest(ctx context.Context, content string) (*domain.Suggestion, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}

	if s.suggester == nil {
		return nil, domain.ErrUpstream
	}

	text, err := s.suggester.Suggest(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return &domain.Suggestion{
		Original:    content,
		Suggestions: text,
		Combined:    fmt.Sprintf("%s\n\nSuggestions: %s", content, text),
	}, nil
}

// mutateOwned loads the note, checks ownership and applies mutate. When mutate
// reports a change the note is written back; a revision conflict re-reads the
// note and applies mutate again.
func (s *NoteService) mutateOwned(ctx context.Context, userID, noteID string, mutate func(*domain.Note) bool) (*domain.Note, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		note, err := s.repo.FindByID(ctx, noteID)
		if err != nil {
			return nil, err
		}

		if note.OwnerID != userID {
			return nil, domain.ErrForbidden
		}

		if !mutate(note) {
			return note, nil
		}

		note.UpdatedAt = time.Now()
		err = s.repo.Update(ctx, note)
		if errors.Is(err, domain.ErrRevisionConflict) {
			log.Printf("revision conflict on note %s (attempt %d), retrying", noteID, attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		return note, nil
	}

	return nil, fmt.Errorf("failed to update note after %d attempts: %w", maxWriteAttempts, domain.ErrRevisionConflict)
}

// withoutCaller drops the caller's own address; an owner never shares with themselves.
func (s *NoteService) withoutCaller(ctx context.Context, userID string, emails []string) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return emails, nil
		}
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}

	filtered := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != user.Email {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *NoteService) notify(event string, fn func(Notifier) error) {
	if s.notifier == nil {
		return
	}
	if err := fn(s.notifier); err != nil {
		log.Printf("failed to send %s notification: %v", event, err)
	}
}
