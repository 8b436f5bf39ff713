package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthyconnect/healthtrack-api/internal/apierrors"
	"github.com/healthyconnect/healthtrack-api/internal/services"
)

// Handler carries the injected database handle and services shared by
// all route handlers.
type Handler struct {
	DB              *mongo.Database
	NotificationSvc *services.NotificationService
}

func NewHandler(db *mongo.Database, notificationSvc *services.NotificationService) *Handler {
	return &Handler{
		DB:              db,
		NotificationSvc: notificationSvc,
	}
}

func (h *Handler) users() *mongo.Collection {
	return h.DB.Collection("users")
}

func (h *Handler) goals() *mongo.Collection {
	return h.DB.Collection("goals")
}

// currentUserID reads the authenticated caller's id set by the auth
// middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDHex, exists := c.Get("userID")
	if !exists {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex.(string))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

func currentRole(c *gin.Context) string {
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)
	return roleStr
}

// respondError maps a domain error onto the HTTP surface.
func respondError(c *gin.Context, err error) {
	httpErr := apierrors.MapToHTTP(err)
	c.JSON(httpErr.StatusCode, gin.H{"error": httpErr.Message})
}
