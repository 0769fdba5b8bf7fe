package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	appointmentModel "repair-booking/models/appointment"
	"repair-booking/services/appointment_event"
)

// GormStore is the Postgres-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, a *appointmentModel.Appointment, meta EventMeta) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return appointment_event.Record(tx, a, meta.Type, meta.FromStatus, meta.ActorRole, meta.ActorID)
	})
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*appointmentModel.Appointment, error) {
	var a appointmentModel.Appointment
	err := s.db.WithContext(ctx).Preload("Technician").First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) UpdateGuarded(ctx context.Context, a *appointmentModel.Appointment, expectedVersion int, meta EventMeta) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&appointmentModel.Appointment{}).
			Where("id = ? AND status_version = ?", a.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":            a.Status,
				"technician_id":     a.TechnicianID,
				"scheduled_at":      a.ScheduledAt,
				"notes":             a.Notes,
				"cancel_category":   a.CancelCategory,
				"cancel_reason":     a.CancelReason,
				"cancelled_by_role": a.CancelledByRole,
				"cancelled_by_id":   a.CancelledByID,
				"rating":            a.Rating,
				"feedback_text":     a.FeedbackText,
				"feedback_at":       a.FeedbackAt,
				"status_version":    expectedVersion + 1,
				"updated_at":        time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a lost race from a vanished row
			var count int64
			if err := tx.Model(&appointmentModel.Appointment{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrConflict
		}
		a.StatusVersion = expectedVersion + 1
		return appointment_event.Record(tx, a, meta.Type, meta.FromStatus, meta.ActorRole, meta.ActorID)
	})
}

func (s *GormStore) ListActive(ctx context.Context) ([]appointmentModel.Appointment, error) {
	var items []appointmentModel.Appointment
	err := s.db.WithContext(ctx).Preload("Technician").Order("created_at ASC").Find(&items).Error
	return items, err
}

func (s *GormStore) ListDeleted(ctx context.Context) ([]appointmentModel.Appointment, error) {
	var items []appointmentModel.Appointment
	err := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&items).Error
	return items, err
}

func (s *GormStore) SoftDelete(ctx context.Context, id string, meta EventMeta) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a appointmentModel.Appointment
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&a).Error; err != nil {
			return err
		}
		// Soft delete only writes deleted_at; touch updated_at so the
		// recycle-bin listing reflects the mutation time.
		if err := tx.Unscoped().Model(&appointmentModel.Appointment{}).
			Where("id = ?", id).
			Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
		return appointment_event.Record(tx, &a, meta.Type, a.Status, meta.ActorRole, meta.ActorID)
	})
}

func (s *GormStore) Restore(ctx context.Context, id string, meta EventMeta) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a appointmentModel.Appointment
		err := tx.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&a).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		res := tx.Unscoped().Model(&appointmentModel.Appointment{}).
			Where("id = ?", id).
			Update("deleted_at", nil)
		if res.Error != nil {
			return res.Error
		}
		return appointment_event.Record(tx, &a, meta.Type, a.Status, meta.ActorRole, meta.ActorID)
	})
}

func (s *GormStore) Purge(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Delete(&appointmentModel.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*GormStore)(nil)
