package repository

import (
	"context"
	"fmt"
	"sort"

	"notehub-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error)
	ListSharedWith(ctx context.Context, email string) ([]*domain.Note, error)
	// Update writes note at its current Rev and returns domain.ErrRevisionConflict
	// when the stored document has moved on.
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, note *domain.Note) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id string) string {
	return fmt.Sprintf("note:%s", id)
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	note.DocType = domain.DocTypeNote
	note.Rev = ""
	rev, err := db.Put(ctx, noteDocID(note.ID), note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	note.Rev = rev

	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	var note domain.Note
	if err := db.Get(ctx, noteDocID(id)).ScanDoc(&note); err != nil {
		return nil, wrapNotFound(err, domain.ErrNoteNotFound, "failed to find note")
	}

	if note.DocType != domain.DocTypeNote {
		return nil, domain.ErrNoteNotFound
	}

	return &note, nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return r.find(ctx, map[string]interface{}{
		"doc_type": domain.DocTypeNote,
		"owner_id": ownerID,
	})
}

func (r *noteRepository) ListSharedWith(ctx context.Context, email string) ([]*domain.Note, error) {
	return r.find(ctx, map[string]interface{}{
		"doc_type": domain.DocTypeNote,
		"shared_with": map[string]interface{}{
			"$elemMatch": map[string]interface{}{"$eq": domain.NormalizeEmail(email)},
		},
	})
}

func (r *noteRepository) find(ctx context.Context, selector map[string]interface{}) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	bookmark := ""

	for {
		page, next, err := r.findPage(ctx, selector, bookmark)
		if err != nil {
			return nil, err
		}
		notes = append(notes, page...)

		if len(page) < findPageSize || next == "" || next == bookmark {
			break
		}
		bookmark = next
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})

	return notes, nil
}

func (r *noteRepository) findPage(ctx context.Context, selector map[string]interface{}, bookmark string) ([]*domain.Note, string, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": selector,
		"limit":    findPageSize,
	}
	if bookmark != "" {
		query["bookmark"] = bookmark
	}

	rows := db.Find(ctx, query)
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			return nil, "", fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to list notes: %w", err)
	}

	meta, err := rows.Metadata()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read list metadata: %w", err)
	}
	if meta == nil {
		return notes, "", nil
	}

	return notes, meta.Bookmark, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	note.DocType = domain.DocTypeNote
	rev, err := db.Put(ctx, noteDocID(note.ID), note)
	if err != nil {
		if isConflict(err) {
			return domain.ErrRevisionConflict
		}
		return wrapNotFound(err, domain.ErrNoteNotFound, "failed to update note")
	}
	note.Rev = rev

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Delete(ctx, noteDocID(note.ID), note.Rev); err != nil {
		if isConflict(err) {
			return domain.ErrRevisionConflict
		}
		return wrapNotFound(err, domain.ErrNoteNotFound, "failed to delete note")
	}

	return nil
}
