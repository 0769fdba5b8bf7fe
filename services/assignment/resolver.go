// Package assignment resolves technician identities during confirmation
// and reschedule. It does not check scheduling conflicts against other
// bookings.
package assignment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	technicianModel "repair-booking/models/technician"
)

var ErrUnknownTechnician = errors.New("technician not found or inactive")

// Resolver looks up an assignable technician by id
type Resolver interface {
	Resolve(ctx context.Context, technicianID uint) (*technicianModel.Technician, error)
}

// GormResolver resolves technicians against the directory table
type GormResolver struct {
	db *gorm.DB
}

func NewGormResolver(db *gorm.DB) *GormResolver {
	return &GormResolver{db: db}
}

func (r *GormResolver) Resolve(ctx context.Context, technicianID uint) (*technicianModel.Technician, error) {
	var tech technicianModel.Technician
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", technicianID, true).
		First(&tech).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTechnician
		}
		return nil, err
	}
	return &tech, nil
}
