package handler

import (
	"context"
	"net/http"

	"notehub-server/internal/domain"
	"notehub-server/internal/middleware"
)

type fakeAuthService struct {
	signupFn func(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error)
	loginFn  func(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
}

func (f *fakeAuthService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error) {
	return f.signupFn(ctx, req)
}

func (f *fakeAuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	return f.loginFn(ctx, req)
}

type fakeUserService struct {
	users map[string]*domain.User
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// fakeNoteService records the last call and returns canned results.
type fakeNoteService struct {
	lastUserID string
	lastNoteID string
	lastEmails []string
	lastEmail  string
	lastCreate *domain.CreateNoteRequest
	lastUpdate *domain.UpdateNoteRequest

	note       *domain.NoteResponse
	list       *domain.NoteList
	suggestion *domain.Suggestion
	err        error
}

func (f *fakeNoteService) Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	f.lastUserID, f.lastCreate = ownerID, req
	return f.note, f.err
}

func (f *fakeNoteService) Get(ctx context.Context, userID, noteID string) (*domain.NoteResponse, error) {
	f.lastUserID, f.lastNoteID = userID, noteID
	return f.note, f.err
}

func (f *fakeNoteService) List(ctx context.Context, userID string) (*domain.NoteList, error) {
	f.lastUserID = userID
	return f.list, f.err
}

func (f *fakeNoteService) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	f.lastUserID, f.lastNoteID, f.lastUpdate = userID, noteID, req
	return f.note, f.err
}

func (f *fakeNoteService) Delete(ctx context.Context, userID, noteID string) error {
	f.lastUserID, f.lastNoteID = userID, noteID
	return f.err
}

func (f *fakeNoteService) Share(ctx context.Context, userID, noteID string, emails []string) (*domain.NoteResponse, error) {
	f.lastUserID, f.lastNoteID, f.lastEmails = userID, noteID, emails
	return f.note, f.err
}

func (f *fakeNoteService) Unshare(ctx context.Context, userID, noteID, email string) (*domain.NoteResponse, error) {
	f.lastUserID, f.lastNoteID, f.lastEmail = userID, noteID, email
	return f.note, f.err
}

func (f *fakeNoteService) Suggest(ctx context.Context, content string) (*domain.Suggestion, error) {
	return f.suggestion, f.err
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}
