package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/middleware"
	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// New accounts start on the free tier with this many generation credits.
const defaultCredits = 50

type RegisterRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a user and their profile with the free-tier credit
// allowance.
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("RegisterUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	existingUser, err := h.Accounts.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("RegisterUser: Error finding user by email '%s': %v", req.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error checking account", nil)
		return
	}
	if existingUser != nil {
		log.Debugf("RegisterUser: User with email '%s' already exists.", req.Email)
		utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("RegisterUser: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error creating account", nil)
		return
	}

	displayName := strings.TrimSpace(req.Name)
	if displayName == "" {
		displayName = strings.Split(req.Email, "@")[0]
	}
	user := &db.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	profile := &db.Profile{
		DisplayName: sql.NullString{String: displayName, Valid: true},
		Credits:     defaultCredits,
		Tier:        "free",
	}
	if err := h.Accounts.CreateUserWithProfile(user, profile); err != nil {
		log.Errorf("RegisterUser: Error creating account for '%s': %v", req.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Error creating account", nil)
		return
	}

	log.Infof("User with ID '%s' registered.", user.ID.String())
	utils.ResponseWithSuccess(c, http.StatusCreated, "Account created successfully", nil)
}

// LoginUser verifies credentials and issues a JWT.
func (h *Handlers) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("LoginUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	user, err := h.Accounts.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("LoginUser: Error finding user by email: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	if user == nil {
		log.Debugf("LoginUser: User with email '%s' not found.", req.Email)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Debugf("LoginUser: Invalid password for user '%s'.", req.Email)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Errorf("LoginUser: Failed to generate JWT token for user %s: %v", user.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to generate authentication token", nil)
		return
	}

	log.Infof("User %s logged in successfully.", user.Email)
	utils.ResponseWithSuccess(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// DeleteAccount removes the authenticated user's account. Profile and
// project rows go with it via the schema's cascade constraints.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("DeleteAccount: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	if err := h.Accounts.DeleteUser(claims.UserID); err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("DeleteAccount: User %s not found, possibly already deleted.", claims.UserID.String())
			utils.ResponseWithError(c, http.StatusNotFound, "Account not found or already deleted", nil)
			return
		}
		log.Errorf("DeleteAccount: Error deleting user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete account", nil)
		return
	}

	log.Infof("DeleteAccount: User %s deleted.", claims.UserID.String())
	c.Status(http.StatusNoContent)
}
