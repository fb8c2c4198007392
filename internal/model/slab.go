package model

import "gorm.io/gorm"

type Grade string

const (
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeOther Grade = "Other"
)

var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeOther}

func (g Grade) Valid() bool {
	for _, known := range Grades {
		if g == known {
			return true
		}
	}
	return false
}

// Slab is one measured stone piece. SlabNumber is unique across all batches.
type Slab struct {
	SlabNumber  int64   `gorm:"primaryKey;autoIncrement:false" json:"slab_number"`
	Length      float64 `gorm:"not null" json:"length"`
	Width       float64 `gorm:"not null" json:"width"`
	SqFt        float64 `gorm:"column:sq_ft;not null" json:"sq_ft"`
	Grade       Grade   `gorm:"type:varchar(10);not null" json:"grade"`
	BatchNumber string  `gorm:"type:varchar(100);not null;index" json:"batch_number"`
}

func (Slab) TableName() string {
	return "slabs"
}

// Area is length × width
func (s *Slab) Area() float64 {
	return s.Length * s.Width
}

// BeforeSave keeps sq_ft derived on every write path, whatever the caller put there
func (s *Slab) BeforeSave(tx *gorm.DB) error {
	s.SqFt = s.Area()
	return nil
}
