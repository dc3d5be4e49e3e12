package models

import "time"

// Receipt tracks an uploaded receipt image and the outcome of its extraction.
// Failed uploads keep their record (with the missing-field list) so they can
// be reviewed manually instead of silently disappearing.
type Receipt struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FileName  string `gorm:"size:255;not null"`
	StorePath string `gorm:"column:store_path;size:512"`

	ContentType   string `gorm:"size:128"`
	TransactionID *uint  `gorm:"index"` // set once extraction succeeds
	Failed        bool   `gorm:"default:false;index"`
	MissingFields string `gorm:"size:255"` // comma-separated, from the validation gate
	FailedReason  string `gorm:"size:255"`
}
