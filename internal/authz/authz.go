// Package authz holds the capability checks gating profile, goal and
// patient-detail access. All checks are pure so handlers stay thin and
// the rules stay testable without a database.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// CanViewPatient reports whether a provider may read a patient's full
// detail: the patient must be in the provider's assigned set. This is
// checked server-side on every patient-detail read.
func CanViewPatient(doctor *models.User, patientID primitive.ObjectID) bool {
	if doctor == nil || doctor.Role != models.RoleProvider {
		return false
	}
	return containsID(doctor.AssignedPatientIDs, patientID)
}

// HasDoctor reports whether doctorID is in the patient's assigned set.
func HasDoctor(patient *models.User, doctorID primitive.ObjectID) bool {
	if patient == nil {
		return false
	}
	return containsID(patient.AssignedDoctorIDs, doctorID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
