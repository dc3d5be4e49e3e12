package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pagoscan/models"
	"pagoscan/pkg/receipt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/scan", scanHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.GET("/transactions/summary", transactionSummaryHandler)
	authGroup.GET("/receipts", listReceiptsHandler)
	authGroup.GET("/receipts/:id", getReceiptHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// scanHandler accepts a receipt image, runs the extraction pipeline and
// records the result. Incomplete extractions are stored as failed receipts
// and answered with 422 so the client can route them to manual review.
func scanHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	ct := file.Header.Get("Content-Type")
	baseDir := uploadBaseDir()
	relPath := filepath.Join("scans", file.Filename)
	fullPath := filepath.Join(baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	rec := models.Receipt{UserID: user.ID, FileName: file.Filename, StorePath: filepath.ToSlash(relPath), ContentType: ct}

	data, err := scanner.Process(fullPath)
	if err != nil {
		var mferr *receipt.MissingFieldsError
		if errors.As(err, &mferr) {
			rec.Failed = true
			rec.MissingFields = strings.Join(mferr.Fields, ",")
			if err := db.Create(&rec).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
				return
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "missing required fields",
				"missing":    mferr.Fields,
				"data":       data,
				"receipt_id": rec.ID,
			})
			return
		}
		rec.Failed = true
		rec.FailedReason = err.Error()
		db.Create(&rec)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed", "receipt_id": rec.ID})
		return
	}

	tx := transactionFromData(user.ID, data)
	// reference is unique per user; re-scanning the same receipt returns the existing record
	var existing models.Transaction
	if err := db.Where("user_id = ? AND reference = ?", user.ID, tx.Reference).First(&existing).Error; err == nil {
		rec.TransactionID = &existing.ID
		db.Create(&rec)
		c.JSON(http.StatusOK, gin.H{"transaction_id": existing.ID, "receipt_id": rec.ID, "data": data, "duplicate": true})
		return
	}
	if err := db.Create(&tx).Error; err != nil {
		if isUniqueConstraintError(err) { // race: created concurrently
			if err2 := db.Where("user_id = ? AND reference = ?", user.ID, tx.Reference).First(&existing).Error; err2 == nil {
				tx = existing
			}
		} else {
			rec.Failed = true
			rec.FailedReason = "db save failed"
			db.Create(&rec)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
	}
	rec.TransactionID = &tx.ID
	if err := db.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_id": tx.ID, "receipt_id": rec.ID, "data": data})
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

// listTransactionsHandler lists recent transactions for the authenticated user (admin sees all)
func listTransactionsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Transaction
	q := db.Model(&models.Transaction{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	if bank := c.Query("bank"); bank != "" {
		q = q.Where("bank_code = ?", bank)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// transactionSummaryHandler returns the sum of AmountValue grouped by month.
// Date is stored as dd/mm/yyyy text, so the month key is built from substrings.
func transactionSummaryHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	type Result struct {
		Month string
		Total decimal.Decimal
	}
	var results []Result
	q := db.Model(&models.Transaction{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	rows, err := q.Select("substring(date from 7 for 4) || '-' || substring(date from 4 for 2) as month, sum(amount_value) as total").Group("month").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		rows.Scan(&r.Month, &r.Total)
		results = append(results, r)
	}
	c.JSON(http.StatusOK, results)
}

// listReceiptsHandler returns receipts; admin sees all, user only their own.
// ?failed=1 filters to receipts waiting for manual review.
func listReceiptsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var receipts []models.Receipt
	q := db.Model(&models.Receipt{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	if c.Query("failed") == "1" {
		q = q.Where("failed = ?", true)
	}
	if err := q.Order("id desc").Limit(100).Find(&receipts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// getReceiptHandler returns a single receipt if admin or owner.
func getReceiptHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id := c.Param("id")
	var rec models.Receipt
	if err := db.First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != "administrator" && rec.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := Register(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id now).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// create refresh token
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	// load user
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// create access token
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
