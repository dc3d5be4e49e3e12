package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an extracted bank-transfer or mobile-payment record. Field
// values arrive already canonicalized by the extraction pipeline; Reference
// is unique per user so re-scanning the same receipt cannot double-book.
type Transaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_reference"`
	Reference string `gorm:"size:32;not null;uniqueIndex:idx_user_reference"`

	Amount      string          `gorm:"size:32"` // raw string as printed, e.g. "1.237,00"
	AmountValue decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	AmountType  string          `gorm:"size:8"` // BS, VES, VEF, USD, EUR

	Date           string `gorm:"size:10;not null"` // dd/mm/yyyy
	Identification string `gorm:"size:16"`
	Origin         string `gorm:"size:32"`
	Destination    string `gorm:"size:32"`
	BankCode       string `gorm:"size:4"`
	BankName       string `gorm:"size:64"`
	Concept        string `gorm:"size:32"`

	RawText    string  `gorm:"type:text"` // audit copy of the OCR output
	Confidence float64 `gorm:"default:0"`
}
