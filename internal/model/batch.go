package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch is one supplier delivery, owned by the user who registered it.
// It is immutable once created.
type Batch struct {
	BatchNumber  string    `gorm:"type:varchar(100);primaryKey" json:"batch_number"`
	SupplierName string    `gorm:"type:varchar(255);not null" json:"supplier_name"`
	Color        string    `gorm:"type:varchar(100);not null" json:"color"`
	Thickness    string    `gorm:"type:varchar(50)" json:"thickness"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date         time.Time `gorm:"type:date;not null;index" json:"date"`
	CreatedAt    time.Time `json:"created_at"`

	// Deleting a batch that still has slabs is refused by the store
	Slabs []Slab `gorm:"foreignKey:BatchNumber;references:BatchNumber;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}

// OwnedBy reports whether userID registered the batch
func (b *Batch) OwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// BatchResponse for API responses
type BatchResponse struct {
	BatchNumber  string    `json:"batch_number"`
	SupplierName string    `json:"supplier_name"`
	Color        string    `json:"color"`
	Thickness    string    `json:"thickness"`
	UserID       uuid.UUID `json:"user_id"`
	Uploader     string    `json:"uploader,omitempty"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts Batch to BatchResponse
func (b *Batch) ToResponse() BatchResponse {
	response := BatchResponse{
		BatchNumber:  b.BatchNumber,
		SupplierName: b.SupplierName,
		Color:        b.Color,
		Thickness:    b.Thickness,
		UserID:       b.UserID,
		Date:         b.Date.Format("2006-01-02"),
		CreatedAt:    b.CreatedAt,
	}
	if b.User != nil {
		response.Uploader = b.User.Username
	}
	return response
}
