package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthyconnect/healthtrack-api/internal/config"
	"github.com/healthyconnect/healthtrack-api/internal/db"
	"github.com/healthyconnect/healthtrack-api/internal/handlers"
	"github.com/healthyconnect/healthtrack-api/internal/logger"
	"github.com/healthyconnect/healthtrack-api/internal/middleware"
	"github.com/healthyconnect/healthtrack-api/internal/models"
	"github.com/healthyconnect/healthtrack-api/internal/services"
)

func main() {
	logger.Setup()
	cfg := config.Load()

	// --- Database Connection ---
	ctx := context.Background()
	database, disconnect, err := db.Connect(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer disconnect(ctx)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	logrus.Info("Successfully connected to MongoDB!")

	// --- Initialize Services ---
	notificationSvc := services.NewNotificationService()

	// --- Initialize Handlers with DB and Services ---
	h := handlers.NewHandler(database, notificationSvc)

	// --- Gin Router ---
	r := gin.Default()

	// --- Middleware ---
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	{
		// Profile routes (role in path must match the token role)
		apiRoutes.GET("/profile/:role", h.GetProfile)
		apiRoutes.PUT("/profile/:role", h.UpdateProfile)

		// Patient routes
		patientRoutes := apiRoutes.Group("")
		patientRoutes.Use(middleware.RequireRole(models.RolePatient))
		{
			patientRoutes.GET("/doctors/list", h.ListDoctors)
			patientRoutes.POST("/doctors/assign", h.AssignDoctor)
			patientRoutes.POST("/doctors/unassign", h.UnassignDoctor)
			patientRoutes.POST("/goals/add", h.AddGoal)
			patientRoutes.PUT("/goals/set-target", h.SetGoalTarget)
			patientRoutes.GET("/goals", h.GetGoals)
			patientRoutes.GET("/dashboard/patient", h.PatientDashboard)
		}

		// Provider routes
		providerRoutes := apiRoutes.Group("")
		providerRoutes.Use(middleware.RequireRole(models.RoleProvider))
		{
			providerRoutes.GET("/doctors/patients", h.ListPatients)
			providerRoutes.GET("/doctors/patient/:id", h.GetPatientDetail)
			providerRoutes.POST("/doctors/patient/:id/recommend", h.AddRecommendation)
			providerRoutes.GET("/dashboard/doctor", h.DoctorDashboard)
		}
	}

	logrus.Infof("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server exited: %v", err)
	}
}
