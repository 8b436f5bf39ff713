package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RolePatient  = "patient"
	RoleProvider = "provider"
)

// Recommendation is a free-text note a doctor leaves on an assigned
// patient's record.
type Recommendation struct {
	DoctorName     string    `bson:"doctorName" json:"doctorName"`
	Date           time.Time `bson:"date" json:"date"`
	Recommendation string    `bson:"recommendation" json:"recommendation"`
	Priority       string    `bson:"priority" json:"priority"` // "high", "medium", "low"
}

type Reminder struct {
	Title     string    `bson:"title" json:"title"`
	Date      time.Time `bson:"date" json:"date"`
	Completed bool      `bson:"completed" json:"completed"`
}

type HealthProfile struct {
	Allergies   []string `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Medications []string `bson:"medications,omitempty" json:"medications,omitempty"`
	BloodType   string   `bson:"bloodType,omitempty" json:"bloodType,omitempty"`
}

// User covers both roles; patient-only and provider-only fields are
// omitted from BSON/JSON when empty.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // Hide from JSON responses
	Role           string             `bson:"role" json:"role"`  // "patient" or "provider"
	Phone          string             `bson:"phone" json:"phone"`
	PrivacyConsent bool               `bson:"privacyConsent" json:"privacyConsent"`

	// Patient fields
	Age                   int                  `bson:"age,omitempty" json:"age,omitempty"`
	Weight                float64              `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Height                float64              `bson:"height,omitempty" json:"height,omitempty"` // cm
	HealthProfile         HealthProfile        `bson:"healthProfile,omitempty" json:"healthProfile,omitempty"`
	AssignedDoctorIDs     []primitive.ObjectID `bson:"assignedDoctorIds,omitempty" json:"assignedDoctorIds,omitempty"`
	DoctorRecommendations []Recommendation     `bson:"doctorRecommendations,omitempty" json:"doctorRecommendations,omitempty"`
	Reminders             []Reminder           `bson:"reminders,omitempty" json:"reminders,omitempty"`

	// Provider fields
	Specialization     string               `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Hospital           string               `bson:"hospital,omitempty" json:"hospital,omitempty"`
	LicenseNumber      string               `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	Experience         int                  `bson:"experience,omitempty" json:"experience,omitempty"`
	AssignedPatientIDs []primitive.ObjectID `bson:"assignedPatientIds,omitempty" json:"assignedPatientIds,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
