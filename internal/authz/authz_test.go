package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

func TestCanViewPatient(t *testing.T) {
	assigned := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name      string
		doctor    *models.User
		patientID primitive.ObjectID
		expected  bool
	}{
		{
			name: "assigned patient is visible",
			doctor: &models.User{
				Role:               models.RoleProvider,
				AssignedPatientIDs: []primitive.ObjectID{assigned},
			},
			patientID: assigned,
			expected:  true,
		},
		{
			name: "unassigned patient is not visible",
			doctor: &models.User{
				Role:               models.RoleProvider,
				AssignedPatientIDs: []primitive.ObjectID{assigned},
			},
			patientID: other,
			expected:  false,
		},
		{
			name: "empty assignment set",
			doctor: &models.User{
				Role: models.RoleProvider,
			},
			patientID: assigned,
			expected:  false,
		},
		{
			name: "patient role never passes even with an assignment set",
			doctor: &models.User{
				Role:               models.RolePatient,
				AssignedPatientIDs: []primitive.ObjectID{assigned},
			},
			patientID: assigned,
			expected:  false,
		},
		{
			name:      "nil doctor",
			doctor:    nil,
			patientID: assigned,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanViewPatient(tt.doctor, tt.patientID))
		})
	}
}

func TestHasDoctor(t *testing.T) {
	doctorID := primitive.NewObjectID()

	patient := &models.User{
		Role:              models.RolePatient,
		AssignedDoctorIDs: []primitive.ObjectID{doctorID},
	}

	assert.True(t, HasDoctor(patient, doctorID))
	assert.False(t, HasDoctor(patient, primitive.NewObjectID()))
	assert.False(t, HasDoctor(nil, doctorID))
}
