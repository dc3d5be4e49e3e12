package report

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"pagoscan/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunReport prints a month-bounded report for username (month in YYYY-MM) and
// optionally lists matching transaction rows. Dates are stored as dd/mm/yyyy
// text, so the month filter matches on the mm/yyyy suffix.
func RunReport(username, month string, list bool) {
	gdb := mustDBFromEnv()

	var user models.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	if len(month) != 7 || month[4] != '-' {
		log.Fatalf("invalid month format, expected YYYY-MM: %s", month)
	}
	suffix := month[5:] + "/" + month[:4] // mm/yyyy

	var total sql.NullFloat64
	var cnt int64
	if err := gdb.Raw(`SELECT COALESCE(SUM(amount_value),0) AS total, COUNT(*) AS cnt FROM transactions WHERE user_id = ? AND date LIKE ?`, user.ID, "%/"+suffix).Row().Scan(&total, &cnt); err != nil {
		log.Fatalf("query failed: %v", err)
	}

	fmt.Printf("Report for user=%s month=%s:\n", user.Username, month)
	fmt.Printf("  records=%d total_amount=%.2f\n", cnt, total.Float64)

	if list {
		var rows []models.Transaction
		if err := gdb.Where("user_id = ? AND date LIKE ?", user.ID, "%/"+suffix).Order("id").Find(&rows).Error; err != nil {
			log.Fatalf("fetch rows failed: %v", err)
		}
		for _, r := range rows {
			fmt.Printf("%d|%s|%s|%s|%s|%s\n", r.ID, r.Reference, r.AmountValue.String(), r.Date, r.BankName, r.Concept)
		}
	}
}
