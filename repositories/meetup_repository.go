// File: /repositories/meetup_repository.go
package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tablemates-api/models"
)

// MeetupFilter is a conjunction over zero or more equality constraints
type MeetupFilter struct {
	Status    string
	Date      string
	CreatedBy string
}

type MeetupRepository struct {
	db *gorm.DB
}

func NewMeetupRepository(db *gorm.DB) *MeetupRepository {
	return &MeetupRepository{db: db}
}

func (r *MeetupRepository) Create(meetup *models.Meetup) error {
	return r.db.Create(meetup).Error
}

// GetByID retrieves a meetup; returns (nil, nil) when the record is absent
func (r *MeetupRepository) GetByID(meetupID string) (*models.Meetup, error) {
	var meetup models.Meetup
	err := r.db.First(&meetup, "id = ?", meetupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meetup, nil
}

// List returns meetups matching the filter, always ordered by date ascending
func (r *MeetupRepository) List(filter MeetupFilter) ([]models.Meetup, error) {
	query := r.db.Model(&models.Meetup{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}

	meetups := []models.Meetup{}
	if err := query.Order("date ASC").Find(&meetups).Error; err != nil {
		return nil, err
	}
	return meetups, nil
}

// UpdateFields applies a partial update, bumps updated_at and advances the
// version counter so any in-flight guarded write against the old version is
// invalidated.
func (r *MeetupRepository) UpdateFields(meetupID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	fields["version"] = gorm.Expr("version + 1")
	return r.db.Model(&models.Meetup{}).Where("id = ?", meetupID).Updates(fields).Error
}

// UpdateFieldsGuarded applies a partial update only if the row still carries
// the given version, advancing it on success. Returns false when another
// writer got there first; callers re-read and re-check. This is what keeps
// two joins racing for the last spot from both passing the capacity check:
// the loser's write hits a bumped version and touches nothing.
func (r *MeetupRepository) UpdateFieldsGuarded(meetupID string, version int, fields map[string]interface{}) (bool, error) {
	fields["updated_at"] = time.Now()
	fields["version"] = version + 1

	result := r.db.Model(&models.Meetup{}).
		Where("id = ? AND version = ?", meetupID, version).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MeetupRepository) Delete(meetupID string) error {
	return r.db.Delete(&models.Meetup{}, "id = ?", meetupID).Error
}

// ListPastActive returns open/full meetups scheduled before the given moment.
// Used by the completion job; date and time are compared lexically since they
// are stored zero-padded.
func (r *MeetupRepository) ListPastActive(now time.Time) ([]models.Meetup, error) {
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	var meetups []models.Meetup
	err := r.db.
		Where("status IN ?", []string{models.MeetupStatusOpen, models.MeetupStatusFull}).
		Where("date < ? OR (date = ? AND time < ?)", date, date, clock).
		Find(&meetups).Error
	if err != nil {
		return nil, err
	}
	return meetups, nil
}
