package main

import (
	"flag"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pagoscan/models"
	"pagoscan/pkg/ocr"
	"pagoscan/pkg/receipt"
)

// Global DB handle for helper funcs
var db *gorm.DB

// global flags (parsed in main)
var verbose bool

// MIME mapping to avoid opening files repeatedly
var extMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// preload caches
type preloadState struct {
	receiptsByFile map[string]*models.Receipt     // fileName -> receipt
	txByReference  map[string]*models.Transaction // reference -> transaction
	mu             sync.RWMutex
}

func newPreloadState() *preloadState {
	return &preloadState{
		receiptsByFile: make(map[string]*models.Receipt, 1024),
		txByReference:  make(map[string]*models.Transaction, 1024),
	}
}

func (ps *preloadState) getReceipt(name string) (*models.Receipt, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	r, ok := ps.receiptsByFile[name]
	return r, ok
}
func (ps *preloadState) putReceipt(r *models.Receipt) {
	ps.mu.Lock()
	ps.receiptsByFile[r.FileName] = r
	ps.mu.Unlock()
}
func (ps *preloadState) getTx(reference string) (*models.Transaction, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	t, ok := ps.txByReference[reference]
	return t, ok
}
func (ps *preloadState) putTx(t *models.Transaction) {
	ps.mu.Lock()
	ps.txByReference[t.Reference] = t
	ps.mu.Unlock()
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

// Main: scans an inbox directory of receipt images, runs the extraction
// pipeline on each and records Transaction/Receipt rows, optional watch mode.
func main() {
	dirFlag := flag.String("dir", "inbox", "directory to scan for receipt images")
	userID := flag.Uint("user-id", 0, "User ID to assign records to (if omitted attempts admin)")
	dryRun := flag.Bool("dry-run", false, "Run the pipeline and print extracted fields without touching the DB")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	proc := receipt.NewProcessor(ocr.NewEngine())

	if *dryRun {
		log.Printf("Dry-run: scanning %s (no DB interaction)", *dirFlag)
		files := listImageFiles(*dirFlag)
		log.Printf("Found %d candidate files", len(files))
		for _, f := range files {
			data, err := proc.Process(filepath.Join(*dirFlag, f))
			if err != nil {
				log.Printf("FAIL %s: %v", f, err)
				continue
			}
			log.Printf("OK %s amount=%v date=%v operation=%v bank=%v", f,
				data["amount_value"], data["date"], data["operation"], data["bankName"])
		}
		return
	}

	db = mustInitDBFromEnv()
	user := resolveUser(*userID)
	ps := preloadAll(user)
	log.Printf("Preloaded: receipts=%d transactions=%d", len(ps.receiptsByFile), len(ps.txByReference))

	files := listImageFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, user, proc, ps, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, user, proc, ps, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// preloadAll fetches existing receipts and transactions to minimize per-file queries.
func preloadAll(user models.User) *preloadState {
	ps := newPreloadState()
	var recs []models.Receipt
	if err := db.Where("user_id = ?", user.ID).Find(&recs).Error; err == nil {
		for i := range recs {
			r := recs[i]
			ps.receiptsByFile[r.FileName] = &r
		}
	}
	var txs []models.Transaction
	if err := db.Where("user_id = ?", user.ID).Find(&txs).Error; err == nil {
		for i := range txs {
			t := txs[i]
			ps.txByReference[t.Reference] = &t
		}
	}
	return ps
}

// resolveUser finds the owning user either by explicit id or by admin username.
func resolveUser(id uint) models.User {
	var u models.User
	if id != 0 {
		if err := db.First(&u, id).Error; err != nil {
			log.Fatalf("failed to find user id %d: %v", id, err)
		}
		return u
	}
	if err := db.Where("username = ?", "admin").First(&u).Error; err != nil {
		log.Fatalf("no --user-id provided and admin user not found: %v", err)
	}
	return u
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, user models.User, proc *receipt.Processor, ps *preloadState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	// Use worker pool for watch events too
	go runWorkerPool(dir, user, proc, ps, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

func isSupportedExt(name string) bool {
	// ignore OCR-generated temp files to avoid recursive processing
	if strings.Contains(name, ".ocr.") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// worker pool orchestrator
func runWorkerPool(dir string, user models.User, proc *receipt.Processor, ps *preloadState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, user, proc, ps)
			}
		}()
	}
	// feed initial
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		// also relay from extra channels if provided
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile runs the extraction pipeline on one file and records the
// outcome, using preloaded maps to stay idempotent across re-runs.
func processSingleFile(dir, name string, user models.User, proc *receipt.Processor, ps *preloadState) {
	filePath := filepath.Join(dir, name)

	if rec, ok := ps.getReceipt(name); ok && !rec.Failed { // already processed
		logV("SKIP receipt exists %s", name)
		return
	}

	rec := models.Receipt{UserID: user.ID, FileName: name, StorePath: filepath.ToSlash(filepath.Join(filepath.Base(dir), name))}
	if ct := mimeFromExt(name); ct != "" {
		rec.ContentType = ct
	}

	data, err := proc.Process(filePath)
	if err != nil {
		if mferr, ok := err.(*receipt.MissingFieldsError); ok {
			rec.Failed = true
			rec.MissingFields = strings.Join(mferr.Fields, ",")
		} else {
			rec.Failed = true
			rec.FailedReason = err.Error()
		}
		if err := db.Create(&rec).Error; err != nil {
			log.Printf("ERROR create receipt %s: %v", name, err)
			return
		}
		ps.putReceipt(&rec)
		log.Printf("FAIL %s: %v", name, err)
		return
	}

	reference, _ := data["operation"].(string)
	if existing, ok := ps.getTx(reference); ok {
		rec.TransactionID = &existing.ID
		if err := db.Create(&rec).Error; err == nil {
			ps.putReceipt(&rec)
		}
		logV("SKIP transaction exists ref=%s file=%s", reference, name)
		return
	}

	tx := transactionFromData(user.ID, data)
	if err := db.Create(&tx).Error; err != nil {
		if isUniqueConstraintError(err) { // race: created concurrently
			var existing models.Transaction
			if err2 := db.Where("user_id = ? AND reference = ?", user.ID, reference).First(&existing).Error; err2 == nil {
				ps.putTx(&existing)
				tx = existing
			} else {
				log.Printf("WARN fetch after race failed %s: %v", reference, err2)
				return
			}
		} else {
			log.Printf("ERROR create transaction %s: %v", name, err)
			return
		}
	} else {
		ps.putTx(&tx)
	}
	rec.TransactionID = &tx.ID
	if err := db.Create(&rec).Error; err != nil {
		log.Printf("ERROR create receipt %s: %v", name, err)
		return
	}
	ps.putReceipt(&rec)
	log.Printf("TRANSACTION ref=%s amount=%s linked file=%s", tx.Reference, tx.AmountValue.String(), name)
	// Move the processed file out of the inbox so new images are processed only once
	if err := moveToProcessed(filePath, name); err != nil {
		log.Printf("WARN failed to move processed file %s: %v", name, err)
	} else {
		logV("moved processed %s", name)
	}
}

// transactionFromData maps a normalized extraction record onto a Transaction row.
func transactionFromData(userID uint, data map[string]any) models.Transaction {
	tx := models.Transaction{
		UserID:         userID,
		Reference:      strField(data, "operation"),
		Amount:         strField(data, "amount"),
		AmountType:     strField(data, "amount_type"),
		Date:           strField(data, "date"),
		Identification: strField(data, "identification"),
		Origin:         strField(data, "origin"),
		Destination:    strField(data, "destination"),
		BankCode:       strField(data, "bankCode"),
		BankName:       strField(data, "bankName"),
		Concept:        strField(data, "concept"),
		RawText:        strField(data, "raw_text"),
	}
	switch v := data["amount_value"].(type) {
	case int64:
		tx.AmountValue = decimal.NewFromInt(v)
	case float64:
		tx.AmountValue = decimal.NewFromFloat(v)
	}
	if conf, ok := data["confidence"].(float64); ok {
		tx.Confidence = conf
	}
	return tx
}

func strField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func mimeFromExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := extMime[ext]; ok {
		return m
	}
	return ""
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// moveToProcessed moves a file from the inbox to processed/<name>.
// It attempts an atomic rename and falls back to copy+remove when necessary.
func moveToProcessed(srcFullPath, name string) error {
	const maxBytes = 1_000_000 // 1 MB budget
	processedDir := "processed"
	if v := os.Getenv("PROCESSED_DIR"); v != "" {
		processedDir = v
	}
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, name)

	fi, err := os.Stat(srcFullPath)
	if err != nil {
		return err
	}
	// Fast path: already small enough -> attempt rename/copy
	if fi.Size() <= maxBytes {
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Need compression / resizing
	img, err := imaging.Open(srcFullPath)
	if err != nil { // fallback to raw move if cannot decode
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Estimate scale factor based on sqrt(max/current) (size roughly scales with area)
	scale := math.Sqrt(float64(maxBytes) / float64(fi.Size()))
	if scale > 0.95 { // still enforce some small reduction to help container formats
		scale = 0.95
	}
	if scale < 0.1 { // avoid absurd downscale
		scale = 0.1
	}
	if scale < 1 {
		w := img.Bounds().Dx()
		h := img.Bounds().Dy()
		newW := int(math.Max(1, math.Round(float64(w)*scale)))
		newH := int(math.Max(1, math.Round(float64(h)*scale)))
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}
	// Save to dst (overwrite if exists)
	if err := imaging.Save(img, dst); err != nil {
		// fallback to original move
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Remove original after successful save
	_ = os.Remove(srcFullPath)
	// If still > maxBytes, try one more uniform 80% scale pass
	if fi2, err2 := os.Stat(dst); err2 == nil && fi2.Size() > maxBytes {
		img2, errOpen2 := imaging.Open(dst)
		if errOpen2 == nil {
			img2 = imaging.Resize(img2, int(float64(img2.Bounds().Dx())*0.8), 0, imaging.Lanczos)
			_ = imaging.Save(img2, dst)
		}
	}
	return nil
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	_ = out.Close()
	if err := os.Remove(src); err != nil {
		return err
	}
	return nil
}
