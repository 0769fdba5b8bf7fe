package technician

import "time"

// Technician is a directory record for an assignable repair technician.
// Identity is managed externally; this table only backs assignment lookups
// and the staff picker list.
type Technician struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Specialty string    `gorm:"type:varchar(100);index" json:"specialty"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Technician model
func (Technician) TableName() string {
	return "technicians"
}
