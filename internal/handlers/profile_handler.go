package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/healthyconnect/healthtrack-api/internal/apierrors"
	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// GetProfile returns the caller's own profile, restricted to the field
// subset for the requested role. The :role path segment must match the
// role in the token.
func (h *Handler) GetProfile(c *gin.Context) {
	role := c.Param("role")
	if role != currentRole(c) {
		respondError(c, apierrors.ErrForbidden)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	err := h.users().FindOne(c.Request.Context(), bson.M{"_id": userID, "role": role}).Decode(&user)
	if err != nil {
		respondError(c, apierrors.ErrNotFound)
		return
	}

	if role == models.RoleProvider {
		c.JSON(http.StatusOK, gin.H{
			"id":             user.ID.Hex(),
			"name":           user.Name,
			"email":          user.Email,
			"phone":          user.Phone,
			"specialization": user.Specialization,
			"hospital":       user.Hospital,
			"licenseNumber":  user.LicenseNumber,
			"experience":     user.Experience,
			"totalPatients":  len(user.AssignedPatientIDs),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID.Hex(),
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"age":           user.Age,
		"weight":        user.Weight,
		"height":        user.Height,
		"healthProfile": user.HealthProfile,
	})
}

// UpdateProfile applies a partial update: only fields present in the
// request body are written, everything else is left untouched.
func (h *Handler) UpdateProfile(c *gin.Context) {
	role := c.Param("role")
	if role != currentRole(c) {
		respondError(c, apierrors.ErrForbidden)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`

		// Patient fields
		Age         *int      `json:"age"`
		Weight      *float64  `json:"weight"`
		Height      *float64  `json:"height"`
		Allergies   *[]string `json:"allergies"`
		Medications *[]string `json:"medications"`
		BloodType   *string   `json:"bloodType"`

		// Provider fields
		Specialization *string `json:"specialization"`
		Hospital       *string `json:"hospital"`
		Experience     *int    `json:"experience"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updateFields := bson.M{}
	if req.Name != nil {
		updateFields["name"] = *req.Name
	}
	if req.Phone != nil {
		updateFields["phone"] = *req.Phone
	}
	if role == models.RolePatient {
		if req.Age != nil {
			updateFields["age"] = *req.Age
		}
		if req.Weight != nil {
			updateFields["weight"] = *req.Weight
		}
		if req.Height != nil {
			updateFields["height"] = *req.Height
		}
		if req.Allergies != nil {
			updateFields["healthProfile.allergies"] = *req.Allergies
		}
		if req.Medications != nil {
			updateFields["healthProfile.medications"] = *req.Medications
		}
		if req.BloodType != nil {
			updateFields["healthProfile.bloodType"] = *req.BloodType
		}
	} else {
		if req.Specialization != nil {
			updateFields["specialization"] = *req.Specialization
		}
		if req.Hospital != nil {
			updateFields["hospital"] = *req.Hospital
		}
		if req.Experience != nil {
			updateFields["experience"] = *req.Experience
		}
	}

	if len(updateFields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}
	updateFields["updatedAt"] = time.Now().UTC()

	result, err := h.users().UpdateOne(
		c.Request.Context(),
		bson.M{"_id": userID, "role": role},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		respondError(c, apierrors.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
