package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository"
)

// cancelCutoff is how close to the start time a registration can still be
// withdrawn.
const cancelCutoff = time.Hour

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	emailSvc  EmailService
}

func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

func (s *eventService) Create(ctx context.Context, clubID int64, event *domain.Event) (*domain.Event, error) {
	if event.Time.Before(time.Now()) {
		return nil, fmt.Errorf("%w: event time must be in the future", ErrInvalidTransition)
	}
	if event.MaxParticipants <= 0 {
		return nil, fmt.Errorf("%w: max participants must be positive", ErrInvalidTransition)
	}

	event.ClubID = clubID
	event.Status = domain.EventStatusUpcoming
	event.IsActive = true
	event.ReminderSent = false
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, eventID, userID int64) (*domain.Event, bool, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	registered := false
	if userID != 0 {
		if _, err := s.eventRepo.GetRegistration(ctx, eventID, userID); err == nil {
			registered = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, err
		}
	}
	return event, registered, nil
}

func (s *eventService) List(ctx context.Context, clubID int64, kind string, limit, offset int32) ([]domain.Event, int32, error) {
	switch kind {
	case "", "all", "upcoming", "past", "ongoing":
	default:
		return nil, 0, fmt.Errorf("%w: unknown filter %q", ErrInvalidTransition, kind)
	}
	return s.eventRepo.List(ctx, repository.EventFilter{
		ClubID: clubID,
		Kind:   kind,
		Now:    time.Now(),
		Limit:  limit,
		Offset: offset,
	})
}

func (s *eventService) Update(ctx context.Context, clubID int64, event *domain.Event) (*domain.Event, error) {
	current, err := s.getOwnedEvent(ctx, event.ID, clubID)
	if err != nil {
		return nil, err
	}
	if event.Time.Before(time.Now()) {
		return nil, fmt.Errorf("%w: event time must be in the future", ErrInvalidTransition)
	}
	if event.MaxParticipants < current.JoinedCount {
		return nil, fmt.Errorf("%w: capacity cannot drop below %d current registrations",
			ErrInvalidTransition, current.JoinedCount)
	}

	timeChanged := !current.Time.Equal(event.Time)
	current.Title = event.Title
	current.Description = event.Description
	current.Location = event.Location
	current.Time = event.Time
	current.MaxParticipants = event.MaxParticipants
	current.Images = event.Images
	if timeChanged {
		// A rescheduled event gets a fresh reminder.
		current.ReminderSent = false
	}

	if err := s.eventRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *eventService) SoftDelete(ctx context.Context, eventID, clubID int64) error {
	event, err := s.getOwnedEvent(ctx, eventID, clubID)
	if err != nil {
		return err
	}
	now := time.Now()
	event.IsActive = false
	event.DeletedAt = &now
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) Restore(ctx context.Context, eventID, clubID int64) error {
	event, err := s.getOwnedEvent(ctx, eventID, clubID)
	if err != nil {
		return err
	}
	event.IsActive = true
	event.DeletedAt = nil
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) HardDelete(ctx context.Context, eventID, clubID int64) error {
	if _, err := s.getOwnedEvent(ctx, eventID, clubID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) ListDeleted(ctx context.Context, clubID int64) ([]domain.Event, error) {
	return s.eventRepo.ListDeletedByClub(ctx, clubID)
}

func (s *eventService) Register(ctx context.Context, eventID, userID int64) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsActive || event.Status != domain.EventStatusUpcoming || event.Time.Before(time.Now()) {
		return ErrEventStarted
	}
	if event.IsFull() {
		return ErrEventFull
	}
	if _, err := s.eventRepo.GetRegistration(ctx, eventID, userID); err == nil {
		return ErrAlreadyRegistered
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	reg := &domain.EventRegistration{
		EventID:     eventID,
		UserID:      userID,
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
	}
	if err := s.eventRepo.AddRegistration(ctx, reg); err != nil {
		return err
	}

	if err := s.emailSvc.SendEventRegistration(ctx, user.Email, user.FullName, event.Title, event.Time, event.Location); err != nil {
		logger.Error("failed to send registration email", "event_id", eventID, "user_id", userID, "error", err)
	}
	return nil
}

func (s *eventService) CancelRegistration(ctx context.Context, eventID, userID int64, reason string) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	reg, err := s.eventRepo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotRegistered
		}
		return err
	}
	if reg.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	if time.Until(event.Time) < cancelCutoff {
		return ErrCancelWindowClosed
	}

	cancellation := &domain.EventCancellation{
		EventID:  eventID,
		UserID:   userID,
		Email:    reg.Email,
		FullName: reg.FullName,
		Reason:   reason,
	}
	if err := s.eventRepo.AddCancellation(ctx, cancellation); err != nil {
		return err
	}
	if err := s.eventRepo.RemoveRegistration(ctx, eventID, userID); err != nil {
		return err
	}

	if err := s.emailSvc.SendEventCancellation(ctx, reg.Email, reg.FullName, event.Title, reason); err != nil {
		logger.Error("failed to send cancellation email", "event_id", eventID, "user_id", userID, "error", err)
	}
	if club, err := s.userRepo.GetByID(ctx, event.ClubID); err == nil {
		_ = s.emailSvc.SendEventCancellation(ctx, club.Email, club.FullName, event.Title,
			fmt.Sprintf("%s withdrew: %s", reg.FullName, reason))
	}
	return nil
}

func (s *eventService) ListParticipants(ctx context.Context, eventID, clubID int64) ([]domain.EventRegistration, error) {
	if _, err := s.getOwnedEvent(ctx, eventID, clubID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListRegistrations(ctx, eventID)
}

func (s *eventService) SetCheckIn(ctx context.Context, eventID, clubID, userID int64, checkedIn bool) error {
	if _, err := s.getOwnedEvent(ctx, eventID, clubID); err != nil {
		return err
	}
	reg, err := s.eventRepo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotRegistered
		}
		return err
	}
	if checkedIn && reg.CheckedIn {
		return ErrAlreadyCheckedIn
	}

	var at *time.Time
	if checkedIn {
		now := time.Now()
		at = &now
	}
	return s.eventRepo.SetCheckedIn(ctx, eventID, userID, checkedIn, at)
}

func (s *eventService) MyEvents(ctx context.Context, userID int64) ([]domain.Event, error) {
	return s.eventRepo.ListEventsByParticipant(ctx, userID)
}

// SendReminders emails every participant of events starting within the next
// 24 hours, once per event.
func (s *eventService) SendReminders(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListDueForReminder(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range events {
		event := &events[i]
		regs, err := s.eventRepo.ListRegistrations(ctx, event.ID)
		if err != nil {
			logger.Error("failed to load registrations for reminder", "event_id", event.ID, "error", err)
			continue
		}
		for _, reg := range regs {
			if err := s.emailSvc.SendEventReminder(ctx, reg.Email, reg.FullName, event.Title, event.Time, event.Location); err != nil {
				logger.Error("failed to send event reminder", "event_id", event.ID, "email", reg.Email, "error", err)
			}
		}
		if err := s.eventRepo.MarkReminderSent(ctx, event.ID); err != nil {
			logger.Error("failed to mark reminder sent", "event_id", event.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *eventService) RollStatuses(ctx context.Context) (int64, error) {
	return s.eventRepo.RollStatuses(ctx, time.Now())
}

func (s *eventService) getEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) getOwnedEvent(ctx context.Context, eventID, clubID int64) (*domain.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.ClubID != clubID {
		return nil, ErrForbidden
	}
	return event, nil
}
