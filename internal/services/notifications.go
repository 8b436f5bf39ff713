package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// NotificationService sends SMS notifications to patients via Textbelt.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SendRecommendationSMS notifies a patient that a doctor left a new
// recommendation on their record.
func (s *NotificationService) SendRecommendationSMS(patient *models.User, rec *models.Recommendation) {
	if patient.Phone == "" {
		logrus.Info("SMS not sent: patient has no phone number.")
		return
	}

	smsBody := fmt.Sprintf(
		"New recommendation from %s (%s priority): %s",
		rec.DoctorName,
		rec.Priority,
		rec.Recommendation,
	)

	// Send in a goroutine so it doesn't block the API response
	go sendSmsWithTextbelt(patient.Phone, smsBody)
}

func sendSmsWithTextbelt(phone, message string) {
	// Textbelt free key allows 1 SMS per day. Get a paid key for more.
	textbeltKey := os.Getenv("TEXTBELT_API_KEY")

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     textbeltKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		logrus.Errorf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		logrus.Errorf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, errorMsg)
	} else {
		logrus.Infof("Successfully sent SMS via Textbelt to %s", phone)
	}
}
