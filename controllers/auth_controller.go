package controllers

import (
	"net/http"
	"strings"
	"time"

	"agence-backend/config"
	"agence-backend/models"
	"agence-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Login (POST /api/auth/login)
func Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	username := strings.TrimSpace(payload.Username)
	password := payload.Password
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	stored := user.Password
	valid := false
	if stored != "" {
		if isBcryptHash(stored) {
			valid = bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
		} else if stored == password {
			// Legacy plaintext row: accept once and upgrade to bcrypt.
			valid = true
			if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
				_ = config.DB.Model(&user).Update("password", string(hash)).Error
			}
		}
	}
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateReference("TOK")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token":      token,
			"expires_at": time.Now().Add(12 * time.Hour).UTC(),
			"user": gin.H{
				"id":       user.ID,
				"fullName": user.FullName,
				"username": user.Username,
				"role":     user.Role,
			},
		},
	})
}

// GetUsers (GET /api/users)
func GetUsers(c *gin.Context) {
	var users []models.User
	config.DB.Order("full_name ASC").Find(&users)
	c.JSON(http.StatusOK, users)
}

// CreateUser (POST /api/users)
func CreateUser(c *gin.Context) {
	var payload struct {
		FullName string `json:"fullName" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid user payload: " + err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to hash password"})
		return
	}

	user := models.User{
		FullName: payload.FullName,
		Username: strings.TrimSpace(payload.Username),
		Password: string(hash),
		Role:     payload.Role,
	}
	if user.Role == "" {
		user.Role = "agent"
	}

	if err := config.DB.Create(&user).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser (DELETE /api/users/:id)
func DeleteUser(c *gin.Context) {
	id := c.Param("id")
	res := config.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "utilisateur introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
