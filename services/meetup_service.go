// File: /services/meetup_service.go
package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tablemates-api/models"
	"tablemates-api/repositories"
)

// MeetupService owns the capacity and authorization rules around a meetup.
// It is the single place that decides whether a lifecycle transition may
// happen; controllers only translate HTTP to these calls.
type MeetupService struct {
	repo          *repositories.MeetupRepository
	users         *UserService
	notifications *NotificationService
	hub           *Hub
}

func NewMeetupService(repo *repositories.MeetupRepository, users *UserService, notifications *NotificationService, hub *Hub) *MeetupService {
	return &MeetupService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		hub:           hub,
	}
}

// MeetupDraft carries the caller-assembled fields for a new meetup. The
// restaurant fields come from the places lookup; callers validate the upper
// capacity bound, the service only enforces positivity.
type MeetupDraft struct {
	RestaurantName      string
	RestaurantAddress   string
	RestaurantLatitude  float64
	RestaurantLongitude float64
	RestaurantPlaceID   string
	RestaurantPhoto     string
	Date                string
	Time                string
	MaxSpots            int
	Details             string
}

// MeetupPatch is a partial update; nil fields are left untouched
type MeetupPatch struct {
	RestaurantName    *string
	RestaurantAddress *string
	Date              *string
	Time              *string
	MaxSpots          *int
	Details           *string
	Status            *string
}

// Create persists a new meetup with the acting user as its first attendee
func (s *MeetupService) Create(draft MeetupDraft, actorID string) (*models.Meetup, *Error) {
	if draft.MaxSpots < 1 {
		return nil, NewError(KindValidation, "Capacity must be at least 1")
	}

	actor, svcErr := s.users.GetProfile(actorID)
	if svcErr != nil {
		return nil, svcErr
	}

	now := time.Now()
	meetup := &models.Meetup{
		ID:                  uuid.New().String(),
		CreatedBy:           actor.ID,
		CreatorName:         actor.Name,
		CreatorPicture:      actor.ProfilePicture,
		RestaurantName:      draft.RestaurantName,
		RestaurantAddress:   draft.RestaurantAddress,
		RestaurantLatitude:  draft.RestaurantLatitude,
		RestaurantLongitude: draft.RestaurantLongitude,
		RestaurantPlaceID:   draft.RestaurantPlaceID,
		RestaurantPhoto:     draft.RestaurantPhoto,
		Date:                draft.Date,
		Time:                draft.Time,
		MaxSpots:            draft.MaxSpots,
		Details:             draft.Details,
		Status:              models.MeetupStatusOpen,
		Attendees: models.AttendeeList{{
			UserID:   actor.ID,
			Name:     actor.Name,
			Picture:  actor.ProfilePicture,
			JoinedAt: now.Format(time.RFC3339),
		}},
	}

	if err := s.repo.Create(meetup); err != nil {
		return nil, StoreError(err, "Failed to create meetup")
	}

	s.hub.Publish(TopicMeetups)
	return meetup, nil
}

func (s *MeetupService) Get(meetupID string) (*models.Meetup, *Error) {
	meetup, err := s.repo.GetByID(meetupID)
	if err != nil {
		return nil, StoreError(err, "Failed to get meetup")
	}
	if meetup == nil {
		return nil, NewError(KindNotFound, "Meetup not found")
	}
	return meetup, nil
}

// writeRetryLimit bounds how often Join/Leave re-read after losing the
// version race to a concurrent writer
const writeRetryLimit = 3

// Join appends the acting user to the attendee list. The capacity check and
// the write are tied together by the meetup's version: the write only lands
// if the row is unchanged since the read, so two joins racing for the last
// spot cannot both pass AtCapacity. The loser re-reads and re-checks.
func (s *MeetupService) Join(meetupID, actorID string) (*models.Meetup, *Error) {
	actor, svcErr := s.users.GetProfile(actorID)
	if svcErr != nil {
		return nil, svcErr
	}

	for attempt := 0; attempt < writeRetryLimit; attempt++ {
		meetup, err := s.repo.GetByID(meetupID)
		if err != nil {
			return nil, StoreError(err, "Failed to get meetup")
		}
		if meetup == nil {
			return nil, NewError(KindNotFound, "Meetup not found")
		}
		if meetup.IsTerminal() {
			return nil, NewError(KindNotOpen, "This meetup is no longer open")
		}
		if meetup.HasAttendee(actorID) {
			return nil, NewError(KindAlreadyJoined, "You have already joined this meetup")
		}
		if meetup.AtCapacity() {
			return nil, NewError(KindFull, "This meetup is full")
		}

		meetup.Attendees = append(meetup.Attendees, models.Attendee{
			UserID:   actor.ID,
			Name:     actor.Name,
			Picture:  actor.ProfilePicture,
			JoinedAt: time.Now().Format(time.RFC3339),
		})

		status := models.MeetupStatusOpen
		if meetup.AtCapacity() {
			status = models.MeetupStatusFull
		}
		meetup.Status = status

		applied, err := s.repo.UpdateFieldsGuarded(meetupID, meetup.Version, map[string]interface{}{
			"attendees": meetup.Attendees,
			"status":    status,
		})
		if err != nil {
			return nil, StoreError(err, "Failed to join meetup")
		}
		if !applied {
			continue
		}
		meetup.Version++

		s.notifyCreator(meetup, actor, models.NotificationTypeJoin)
		s.hub.Publish(TopicMeetups)
		return meetup, nil
	}

	return nil, NewError(KindConflict, "Meetup changed concurrently, please try again")
}

// Leave removes the acting user's attendee entry and reopens the meetup.
// The creator can never leave; cancellation or deletion is their exit.
// Same version-guarded write discipline as Join.
func (s *MeetupService) Leave(meetupID, actorID string) (*models.Meetup, *Error) {
	for attempt := 0; attempt < writeRetryLimit; attempt++ {
		meetup, err := s.repo.GetByID(meetupID)
		if err != nil {
			return nil, StoreError(err, "Failed to get meetup")
		}
		if meetup == nil {
			return nil, NewError(KindNotFound, "Meetup not found")
		}
		if meetup.CreatedBy == actorID {
			return nil, NewError(KindCreatorCannotLeave, "Creator cannot leave the meetup. You can cancel it instead.")
		}
		if meetup.IsTerminal() {
			return nil, NewError(KindNotOpen, "This meetup is no longer open")
		}
		if !meetup.HasAttendee(actorID) {
			return nil, NewError(KindNotAMember, "You are not a member of this meetup")
		}

		var actorName string
		for _, a := range meetup.Attendees {
			if a.UserID == actorID {
				actorName = a.Name
				break
			}
		}

		meetup.Attendees = meetup.WithoutAttendee(actorID)
		meetup.Status = models.MeetupStatusOpen // Leaving never yields full

		applied, err := s.repo.UpdateFieldsGuarded(meetupID, meetup.Version, map[string]interface{}{
			"attendees": meetup.Attendees,
			"status":    models.MeetupStatusOpen,
		})
		if err != nil {
			return nil, StoreError(err, "Failed to leave meetup")
		}
		if !applied {
			continue
		}
		meetup.Version++

		s.notifyCreator(meetup, &models.User{ID: actorID, Name: actorName}, models.NotificationTypeLeave)
		s.hub.Publish(TopicMeetups)
		return meetup, nil
	}

	return nil, NewError(KindConflict, "Meetup changed concurrently, please try again")
}

// Update merges patch fields into the meetup; creator only. Capacity changes
// re-derive the open/full status and may not shrink below the current
// attendee count.
func (s *MeetupService) Update(meetupID string, patch MeetupPatch, actorID string) *Error {
	meetup, svcErr := s.Get(meetupID)
	if svcErr != nil {
		return svcErr
	}
	if meetup.CreatedBy != actorID {
		return NewError(KindNotAuthorized, "Only the creator can update this meetup")
	}

	updates := map[string]interface{}{}
	if patch.RestaurantName != nil {
		updates["restaurant_name"] = *patch.RestaurantName
	}
	if patch.RestaurantAddress != nil {
		updates["restaurant_address"] = *patch.RestaurantAddress
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Details != nil {
		updates["details"] = *patch.Details
	}
	if patch.MaxSpots != nil {
		if *patch.MaxSpots < 1 {
			return NewError(KindValidation, "Capacity must be at least 1")
		}
		if *patch.MaxSpots < len(meetup.Attendees) {
			return NewError(KindValidation, "Cannot reduce capacity below current attendee count")
		}
		updates["max_spots"] = *patch.MaxSpots

		if !meetup.IsTerminal() {
			status := models.MeetupStatusOpen
			if len(meetup.Attendees) >= *patch.MaxSpots {
				status = models.MeetupStatusFull
			}
			updates["status"] = status
		}
	}
	if patch.Status != nil {
		// Terminal statuses are final: no resurrecting a cancelled meetup,
		// no cancelling a completed one
		if meetup.IsTerminal() {
			return NewError(KindNotOpen, "This meetup is no longer open")
		}
		updates["status"] = *patch.Status
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.repo.UpdateFields(meetupID, updates); err != nil {
		return StoreError(err, "Failed to update meetup")
	}

	s.hub.Publish(TopicMeetups)
	return nil
}

// Cancel marks the meetup cancelled; creator only, terminal for join/leave.
// Cancelling an already-terminal meetup is rejected so attendees are not
// re-notified on repeat calls.
func (s *MeetupService) Cancel(meetupID, actorID string) *Error {
	meetup, svcErr := s.Get(meetupID)
	if svcErr != nil {
		return svcErr
	}
	if meetup.CreatedBy != actorID {
		return NewError(KindNotAuthorized, "Only the creator can cancel this meetup")
	}
	if meetup.IsTerminal() {
		return NewError(KindNotOpen, "This meetup is no longer open")
	}

	cancelled := models.MeetupStatusCancelled
	if err := s.Update(meetupID, MeetupPatch{Status: &cancelled}, actorID); err != nil {
		return err
	}

	// Tell the non-creator attendees their plans fell through
	for _, a := range meetup.Attendees {
		if a.UserID == meetup.CreatedBy {
			continue
		}
		s.notifyAttendee(meetup, a.UserID, models.NotificationTypeCancel)
	}
	return nil
}

// Delete permanently removes the meetup; creator only
func (s *MeetupService) Delete(meetupID, actorID string) *Error {
	meetup, svcErr := s.Get(meetupID)
	if svcErr != nil {
		return svcErr
	}
	if meetup.CreatedBy != actorID {
		return NewError(KindNotAuthorized, "Only the creator can delete this meetup")
	}

	if err := s.repo.Delete(meetupID); err != nil {
		return StoreError(err, "Failed to delete meetup")
	}

	s.hub.Publish(TopicMeetups)
	return nil
}

// List returns meetups matching the filter, ordered by date ascending
func (s *MeetupService) List(filter repositories.MeetupFilter) ([]models.Meetup, *Error) {
	meetups, err := s.repo.List(filter)
	if err != nil {
		return nil, StoreError(err, "Failed to get meetups")
	}
	return meetups, nil
}

// TodayMeetups returns the open meetups happening today
func (s *MeetupService) TodayMeetups() ([]models.Meetup, *Error) {
	return s.List(repositories.MeetupFilter{
		Status: models.MeetupStatusOpen,
		Date:   time.Now().Format("2006-01-02"),
	})
}

// UserMeetups returns the open meetups the user is attending
func (s *MeetupService) UserMeetups(userID string) ([]models.Meetup, *Error) {
	open, svcErr := s.List(repositories.MeetupFilter{Status: models.MeetupStatusOpen})
	if svcErr != nil {
		return nil, svcErr
	}

	mine := []models.Meetup{}
	for _, m := range open {
		if m.HasAttendee(userID) {
			mine = append(mine, m)
		}
	}
	return mine, nil
}

// Subscribe delivers the full re-filtered, re-sorted meetup list to callback
// every time any meetup changes. The returned function cancels the
// subscription and must be called exactly once when the caller loses
// interest. Deliveries to one subscriber are serialized, so each snapshot
// supersedes the previous one.
func (s *MeetupService) Subscribe(filter repositories.MeetupFilter, callback func([]models.Meetup)) func() {
	deliver := serialized(func() {
		meetups, err := s.repo.List(filter)
		if err != nil {
			log.Printf("meetup subscription query failed: %v", err)
			return
		}
		callback(meetups)
	})

	unsubscribe := s.hub.Subscribe(TopicMeetups, deliver)

	// Initial snapshot, matching the store's subscription contract
	deliver()
	return unsubscribe
}

// MarkCompleted transitions a past meetup to completed. Only the background
// job calls this; no user-facing operation sets the status.
func (s *MeetupService) MarkCompleted(meetupID string) *Error {
	if err := s.repo.UpdateFields(meetupID, map[string]interface{}{
		"status": models.MeetupStatusCompleted,
	}); err != nil {
		return StoreError(err, "Failed to complete meetup")
	}

	s.hub.Publish(TopicMeetups)
	return nil
}

// PastActiveMeetups lists open/full meetups scheduled before now
func (s *MeetupService) PastActiveMeetups(now time.Time) ([]models.Meetup, *Error) {
	meetups, err := s.repo.ListPastActive(now)
	if err != nil {
		return nil, StoreError(err, "Failed to list past meetups")
	}
	return meetups, nil
}

func (s *MeetupService) notifyCreator(meetup *models.Meetup, actor *models.User, kind models.NotificationType) {
	if s.notifications == nil || meetup == nil || actor.ID == meetup.CreatedBy {
		return
	}
	if err := s.notifications.Create(meetup.CreatedBy, actor.ID, actor.Name, kind, meetup); err != nil {
		log.Printf("Warning: failed to create %s notification: %v", kind, err)
	}
}

func (s *MeetupService) notifyAttendee(meetup *models.Meetup, targetID string, kind models.NotificationType) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Create(targetID, meetup.CreatedBy, meetup.CreatorName, kind, meetup); err != nil {
		log.Printf("Warning: failed to create %s notification: %v", kind, err)
	}
}

// serialized wraps fn so concurrent invocations queue instead of interleave,
// keeping one subscriber's snapshots monotonic
func serialized(fn func()) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}
