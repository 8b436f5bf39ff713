package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthyconnect/healthtrack-api/internal/aggregate"
	"github.com/healthyconnect/healthtrack-api/internal/apierrors"
	"github.com/healthyconnect/healthtrack-api/internal/authz"
	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// DoctorSummary is one row of the patient-facing doctor list.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Hospital       string `json:"hospital"`
	Experience     int    `json:"experience"`
	IsAssigned     bool   `json:"isAssigned"`
}

// markAssigned flags each doctor against the patient's current
// assignment set.
func markAssigned(doctors []models.User, patient *models.User) []DoctorSummary {
	summaries := make([]DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		summaries = append(summaries, DoctorSummary{
			ID:             d.ID.Hex(),
			Name:           d.Name,
			Specialization: d.Specialization,
			Hospital:       d.Hospital,
			Experience:     d.Experience,
			IsAssigned:     authz.HasDoctor(patient, d.ID),
		})
	}
	return summaries
}

// doctorLookupError turns the provider-existence check result into the
// right failure: absence is a 404, a store error stays a store fault.
func doctorLookupError(count int64, err error) error {
	if err != nil {
		return err
	}
	if count == 0 {
		return apierrors.NewHTTPError(http.StatusNotFound, "Doctor not found")
	}
	return nil
}

// complianceStatus derives a patient's status from their reminders: any
// uncompleted reminder whose date has passed counts as a missed checkup.
func complianceStatus(reminders []models.Reminder, now time.Time) string {
	for _, r := range reminders {
		if !r.Completed && r.Date.Before(now) {
			return "Missed Preventive Checkup"
		}
	}
	return "Goal Met"
}

// ListDoctors returns all providers with an isAssigned flag computed
// against the calling patient's assignment set.
func (h *Handler) ListDoctors(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var patient models.User
	err := h.users().FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&patient)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	cursor, err := h.users().Find(c.Request.Context(), bson.M{"role": models.RoleProvider})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctors"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var doctors []models.User
	if err = cursor.All(c.Request.Context(), &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode doctors"})
		return
	}

	c.JSON(http.StatusOK, markAssigned(doctors, &patient))
}

// assignmentUpdate applies one half of the bidirectional relation and
// retries once on failure. Both $addToSet and $pull are idempotent, so
// the retry cannot over-apply.
func (h *Handler) assignmentUpdate(c *gin.Context, filter, update bson.M) error {
	_, err := h.users().UpdateOne(c.Request.Context(), filter, update)
	if err != nil {
		logrus.Warnf("assignment update failed, retrying once: %v", err)
		_, err = h.users().UpdateOne(c.Request.Context(), filter, update)
	}
	return err
}

// AssignDoctor links the calling patient to a doctor, updating both
// sides of the relation. Repeated assigns are no-ops past the first.
func (h *Handler) AssignDoctor(c *gin.Context) {
	patientID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		DoctorID string `json:"doctorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
		return
	}

	count, err := h.users().CountDocuments(c.Request.Context(), bson.M{"_id": doctorID, "role": models.RoleProvider})
	if lookupErr := doctorLookupError(count, err); lookupErr != nil {
		respondError(c, lookupErr)
		return
	}

	err = h.assignmentUpdate(c,
		bson.M{"_id": patientID, "role": models.RolePatient},
		bson.M{"$addToSet": bson.M{"assignedDoctorIds": doctorID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign doctor"})
		return
	}

	// Second half of the relation. A failure here leaves the patient
	// side written and the doctor side stale; surfaced, not hidden.
	err = h.assignmentUpdate(c,
		bson.M{"_id": doctorID, "role": models.RoleProvider},
		bson.M{"$addToSet": bson.M{"assignedPatientIds": patientID}},
	)
	if err != nil {
		logrus.Errorf("AssignDoctor: doctor-side update failed, relation is one-sided (patient=%s doctor=%s): %v",
			patientID.Hex(), doctorID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete assignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor assigned successfully"})
}

// UnassignDoctor removes the link from both sides of the relation.
func (h *Handler) UnassignDoctor(c *gin.Context) {
	patientID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		DoctorID string `json:"doctorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
		return
	}

	count, err := h.users().CountDocuments(c.Request.Context(), bson.M{"_id": doctorID, "role": models.RoleProvider})
	if lookupErr := doctorLookupError(count, err); lookupErr != nil {
		respondError(c, lookupErr)
		return
	}

	err = h.assignmentUpdate(c,
		bson.M{"_id": patientID, "role": models.RolePatient},
		bson.M{"$pull": bson.M{"assignedDoctorIds": doctorID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign doctor"})
		return
	}

	err = h.assignmentUpdate(c,
		bson.M{"_id": doctorID, "role": models.RoleProvider},
		bson.M{"$pull": bson.M{"assignedPatientIds": patientID}},
	)
	if err != nil {
		logrus.Errorf("UnassignDoctor: doctor-side update failed, relation is one-sided (patient=%s doctor=%s): %v",
			patientID.Hex(), doctorID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete unassignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor unassigned successfully"})
}

// ListPatients gives a provider every patient with a compliance status
// derived from overdue reminders.
func (h *Handler) ListPatients(c *gin.Context) {
	cursor, err := h.users().Find(c.Request.Context(), bson.M{"role": models.RolePatient})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var patients []models.User
	if err = cursor.All(c.Request.Context(), &patients); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode patients"})
		return
	}

	now := time.Now().UTC()
	data := make([]gin.H, 0, len(patients))
	for _, p := range patients {
		data = append(data, gin.H{
			"id":     p.ID.Hex(),
			"name":   p.Name,
			"status": complianceStatus(p.Reminders, now),
			"info":   p.HealthProfile,
		})
	}

	c.JSON(http.StatusOK, data)
}

// GetPatientDetail returns the full health detail for one patient. The
// caller must be a provider with this patient in their assigned set.
func (h *Handler) GetPatientDetail(c *gin.Context) {
	doctorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	patientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	var doctor models.User
	if err := h.users().FindOne(c.Request.Context(), bson.M{"_id": doctorID}).Decode(&doctor); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !authz.CanViewPatient(&doctor, patientID) {
		respondError(c, apierrors.NewHTTPError(http.StatusForbidden, "Patient is not assigned to you"))
		return
	}

	var patient models.User
	err = h.users().FindOne(c.Request.Context(), bson.M{"_id": patientID, "role": models.RolePatient}).Decode(&patient)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	now := time.Now()
	weekStart := aggregate.DayStart(now).AddDate(0, 0, -6)
	cursor, err := h.goals().Find(c.Request.Context(), bson.M{
		"userId": patientID,
		"date":   bson.M{"$gte": weekStart},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var goals []models.Goal
	if err = cursor.All(c.Request.Context(), &goals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode goals"})
		return
	}

	todayStart := aggregate.DayStart(now)
	var todayGoals []models.Goal
	for _, g := range goals {
		if !g.Date.Before(todayStart) {
			todayGoals = append(todayGoals, g)
		}
	}

	recommendations := patient.DoctorRecommendations
	if recommendations == nil {
		recommendations = make([]models.Recommendation, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"id":            patient.ID.Hex(),
			"name":          patient.Name,
			"email":         patient.Email,
			"phone":         patient.Phone,
			"age":           patient.Age,
			"weight":        patient.Weight,
			"height":        patient.Height,
			"healthProfile": patient.HealthProfile,
		},
		"today":           aggregate.TodaySnapshot(todayGoals),
		"weekly":          aggregate.WeeklySeries(goals, now),
		"recommendations": recommendations,
	})
}

// AddRecommendation lets an assigned provider append a recommendation
// to a patient's record. The patient is notified by SMS.
func (h *Handler) AddRecommendation(c *gin.Context) {
	doctorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	patientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	var req struct {
		Recommendation string `json:"recommendation" binding:"required"`
		Priority       string `json:"priority" binding:"omitempty,oneof=high medium low"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}

	var doctor models.User
	if err := h.users().FindOne(c.Request.Context(), bson.M{"_id": doctorID}).Decode(&doctor); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !authz.CanViewPatient(&doctor, patientID) {
		respondError(c, apierrors.NewHTTPError(http.StatusForbidden, "Patient is not assigned to you"))
		return
	}

	var patient models.User
	err = h.users().FindOne(c.Request.Context(), bson.M{"_id": patientID, "role": models.RolePatient}).Decode(&patient)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	rec := models.Recommendation{
		DoctorName:     doctor.Name,
		Date:           time.Now().UTC(),
		Recommendation: req.Recommendation,
		Priority:       req.Priority,
	}

	_, err = h.users().UpdateOne(
		c.Request.Context(),
		bson.M{"_id": patientID},
		bson.M{"$push": bson.M{"doctorRecommendations": rec}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add recommendation"})
		return
	}

	h.NotificationSvc.SendRecommendationSMS(&patient, &rec)

	c.JSON(http.StatusCreated, rec)
}

// DoctorDashboard summarizes the provider's assigned patients: the
// total count and each patient's progress against today's targets.
func (h *Handler) DoctorDashboard(c *gin.Context) {
	doctorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var doctor models.User
	if err := h.users().FindOne(c.Request.Context(), bson.M{"_id": doctorID}).Decode(&doctor); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	summaries := make([]gin.H, 0, len(doctor.AssignedPatientIDs))
	if len(doctor.AssignedPatientIDs) > 0 {
		cursor, err := h.users().Find(c.Request.Context(), bson.M{
			"_id":  bson.M{"$in": doctor.AssignedPatientIDs},
			"role": models.RolePatient,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
			return
		}
		defer cursor.Close(c.Request.Context())

		var patients []models.User
		if err = cursor.All(c.Request.Context(), &patients); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode patients"})
			return
		}

		// One query for every assigned patient's records for today.
		todayStart := aggregate.DayStart(time.Now())
		goalCursor, err := h.goals().Find(c.Request.Context(), bson.M{
			"userId": bson.M{"$in": doctor.AssignedPatientIDs},
			"date":   bson.M{"$gte": todayStart, "$lt": todayStart.AddDate(0, 0, 1)},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
			return
		}
		defer goalCursor.Close(c.Request.Context())

		var todayGoals []models.Goal
		if err = goalCursor.All(c.Request.Context(), &todayGoals); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode goals"})
			return
		}

		byPatient := make(map[primitive.ObjectID][]models.Goal)
		for _, g := range todayGoals {
			byPatient[g.UserID] = append(byPatient[g.UserID], g)
		}

		for _, p := range patients {
			logged := byPatient[p.ID]
			met := 0
			for _, g := range logged {
				if g.Target > 0 && g.Value >= g.Target {
					met++
				}
			}
			summaries = append(summaries, gin.H{
				"id":          p.ID.Hex(),
				"name":        p.Name,
				"age":         p.Age,
				"goalsLogged": len(logged),
				"goalsMet":    met,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalPatients": len(doctor.AssignedPatientIDs),
		"patients":      summaries,
	})
}
