package service

import "time"

// Service is a catalog record for a bookable repair service.
// The catalog is owned elsewhere; bookings denormalize name and category
// from it at creation time.
type Service struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CategoryName string    `gorm:"type:varchar(100);not null;index" json:"category_name"`
	Description  string    `gorm:"type:text" json:"description"`
	BasePrice    float64   `gorm:"type:numeric(12,2);default:0.00" json:"base_price"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Service model
func (Service) TableName() string {
	return "services"
}
