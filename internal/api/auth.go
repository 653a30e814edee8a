package api

import (
	"net/http"
	"strings"

	"finapi/internal/domain"
	"finapi/internal/storage"
	"finapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the session-creation payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterHandler creates a new user with a bcrypt-hashed password.
func RegisterHandler(users storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		user := domain.User{
			ID:       uuid.NewString(),
			Name:     req.Name,
			Email:    strings.ToLower(req.Email),
			Password: string(hash),
			Role:     "user",
		}
		if err := users.Create(c.Request.Context(), &user); err != nil {
			writeError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User registered")
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user by email and password and issues a JWT.
func LoginHandler(users storage.UserStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		user, err := users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
		if err != nil {
			// Unknown email reads the same as a wrong password.
			writeError(c, domain.ErrInvalidCredentials)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			writeError(c, domain.ErrInvalidCredentials)
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
	}
}

// ProfileHandler returns the authenticated user's record.
func ProfileHandler(users storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authedUser(c)
		if !ok {
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
