package domain

import (
	"strings"
	"time"
)

const DocTypeNote = "note"

type Note struct {
	ID         string    `json:"id"`
	Rev        string    `json:"_rev,omitempty"`
	DocType    string    `json:"doc_type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OwnerID    string    `json:"owner_id"`
	SharedWith []string  `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsSharedWith reports whether email is present in the note's share list.
func (n *Note) IsSharedWith(email string) bool {
	email = NormalizeEmail(email)
	for _, e := range n.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

// AddShares merges emails into SharedWith as a set union and returns the
// emails that were not present before.
func (n *Note) AddShares(emails []string) []string {
	var added []string
	for _, e := range emails {
		e = NormalizeEmail(e)
		if e == "" || n.IsSharedWith(e) {
			continue
		}
		n.SharedWith = append(n.SharedWith, e)
		added = append(added, e)
	}
	return added
}

// RemoveShare drops email from SharedWith. It reports whether anything changed.
func (n *Note) RemoveShare(email string) bool {
	email = NormalizeEmail(email)
	kept := make([]string, 0, len(n.SharedWith))
	removed := false
	for _, e := range n.SharedWith {
		if e == email {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	n.SharedWith = kept
	return removed
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content"`
}

type ShareNoteRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,required,email"`
}

type UnshareNoteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SuggestRequest struct {
	Content string `json:"content" validate:"required"`
}

type NoteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OwnerID    string    `json:"owner_id"`
	SharedWith []string  `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SharedNoteResponse is a note seen by a user it was shared with.
type SharedNoteResponse struct {
	NoteResponse
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

type NoteList struct {
	OwnNotes    []*NoteResponse       `json:"own_notes"`
	SharedNotes []*SharedNoteResponse `json:"shared_notes"`
}

type Suggestion struct {
	Original    string `json:"original"`
	Suggestions string `json:"suggestions"`
	Combined    string `json:"combined"`
}

func NewNoteResponse(n *Note) *NoteResponse {
	shared := n.SharedWith
	if shared == nil {
		shared = []string{}
	}
	return &NoteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		OwnerID:    n.OwnerID,
		SharedWith: shared,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
