package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"notehub-server/internal/broker"
	"notehub-server/internal/domain"
	"notehub-server/internal/repository"
	"notehub-server/internal/websocket"
)

// NotificationService turns note changes into websocket events for the users
// a note is shared with.
type NotificationService struct {
	userRepo repository.UserRepository
	broker   broker.Broker
}

func NewNotificationService(userRepo repository.UserRepository, b broker.Broker) *NotificationService {
	return &NotificationService{
		userRepo: userRepo,
		broker:   b,
	}
}

func (s *NotificationService) NoteShared(ctx context.Context, note *domain.Note, emails []string) error {
	return s.publish(ctx, websocket.TypeNoteShared, note, emails, true)
}

func (s *NotificationService) NoteUnshared(ctx context.Context, note *domain.Note, email string) error {
	return s.publish(ctx, websocket.TypeNoteUnshared, note, []string{email}, false)
}

func (s *NotificationService) NoteUpdated(ctx context.Context, note *domain.Note) error {
	return s.publish(ctx, websocket.TypeNoteUpdated, note, note.SharedWith, true)
}

func (s *NotificationService) NoteDeleted(ctx context.Context, note *domain.Note) error {
	return s.publish(ctx, websocket.TypeNoteDeleted, note, note.SharedWith, false)
}

func (s *NotificationService) publish(ctx context.Context, msgType websocket.MessageType, note *domain.Note, emails []string, withNote bool) error {
	userIDs, err := s.resolve(ctx, emails)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	payload := &websocket.NoteEventPayload{
		NoteID:  note.ID,
		Title:   note.Title,
		OwnerID: note.OwnerID,
	}
	if owner, err := s.userRepo.FindByID(ctx, note.OwnerID); err == nil {
		payload.OwnerName = owner.Name
	}
	if withNote {
		payload.Note = domain.NewNoteResponse(note)
	}

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", msgType, err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msgType, err)
	}

	return s.broker.Publish(ctx, &broker.Event{UserIDs: userIDs, Payload: data})
}

// resolve maps emails to user ids, skipping addresses without an account.
func (s *NotificationService) resolve(ctx context.Context, emails []string) ([]string, error) {
	var userIDs []string
	for _, email := range emails {
		user, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve %s: %w", email, err)
		}
		userIDs = append(userIDs, user.ID)
	}
	return userIDs, nil
}
