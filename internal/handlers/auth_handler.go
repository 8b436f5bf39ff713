package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthyconnect/healthtrack-api/internal/apierrors"
	"github.com/healthyconnect/healthtrack-api/internal/models"
	"github.com/healthyconnect/healthtrack-api/internal/utils"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=patient provider"`

	// Provider-only, validated in the handler when role is "provider"
	Specialization string `json:"specialization"`
	Hospital       string `json:"hospital"`
	LicenseNumber  string `json:"licenseNumber"`
	Experience     int    `json:"experience"`
}

// RegisterUser creates a patient or provider account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}
	if role == models.RoleProvider && (req.Specialization == "" || req.Hospital == "" || req.LicenseNumber == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please include specialization, hospital, and license number for doctor registration."})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashedPassword,
		Role:           role,
		Phone:          req.Phone,
		PrivacyConsent: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if role == models.RoleProvider {
		user.Specialization = req.Specialization
		user.Hospital = req.Hospital
		user.LicenseNumber = req.LicenseNumber
		user.Experience = req.Experience
	}

	if _, err := h.users().InsertOne(c.Request.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, apierrors.ErrDuplicateEmail)
			return
		}
		logrus.Errorf("RegisterUser: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// Login authenticates a user. When the request names an expected role
// (the portal it came through), a stored-role mismatch is rejected
// without issuing a token. Unknown email and wrong password share one
// message so the endpoint cannot be used to probe for accounts.
func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	err := h.users().FindOne(c.Request.Context(), bson.M{"email": loginReq.Email}).Decode(&user)
	if err != nil {
		respondError(c, apierrors.ErrInvalidCredentials)
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(c, apierrors.ErrInvalidCredentials)
		return
	}

	if loginReq.Role != "" && user.Role != loginReq.Role {
		respondError(c, fmt.Errorf("%w, please log in through the %s portal", apierrors.ErrWrongPortal, user.Role))
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}
