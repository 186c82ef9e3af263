package handler

import (
	"context"
	"net/http"

	"notehub-server/internal/domain"
	"notehub-server/internal/middleware"
	"notehub-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteService interface {
	Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error)
	Get(ctx context.Context, userID, noteID string) (*domain.NoteResponse, error)
	List(ctx context.Context, userID string) (*domain.NoteList, error)
	Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error)
	Delete(ctx context.Context, userID, noteID string) error
	Share(ctx context.Context, userID, noteID string, emails []string) (*domain.NoteResponse, error)
	Unshare(ctx context.Context, userID, noteID, email string) (*domain.NoteResponse, error)
	Suggest(ctx context.Context, content string) (*domain.Suggestion, error)
}

type NoteHandler struct {
	service  NoteService
	validate *validator.Validate
}

func NewNoteHandler(service NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{
		"own_notes":    notes.OwnNotes,
		"shared_notes": notes.SharedNotes,
	})
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, response.Fields{"note": note})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"note": note})
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.service.Update(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"note": note})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"message": "Note deleted successfully"})
}

func (h *NoteHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req domain.ShareNoteRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.service.Share(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], req.Emails)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"note": note})
}

func (h *NoteHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	var req domain.UnshareNoteRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.service.Unshare(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"note": note})
}

func (h *NoteHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req domain.SuggestRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}

	suggestion, err := h.service.Suggest(r.Context(), req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{
		"original":    suggestion.Original,
		"suggestions": suggestion.Suggestions,
		"combined":    suggestion.Combined,
	})
}
