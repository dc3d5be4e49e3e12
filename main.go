package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pagoscan/pkg/cache"
	"pagoscan/pkg/ocr"
	"pagoscan/pkg/receipt"

	"github.com/gin-gonic/gin"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

// scanner is the extraction pipeline shared by the scan handler. The cache
// layer short-circuits re-uploads of identical images.
var scanner cache.Processor

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./pagoscan migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	engine := ocr.NewEngine()
	processor := receipt.NewProcessor(engine)
	scanner = cache.NewCachedProcessor(processor, cache.NewStore(30*time.Minute, 256))

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8081")
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
