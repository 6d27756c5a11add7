package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/config"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/handlers"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/middleware"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/services"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/utils"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is NOT SET; logins will fail.")
	}
	utils.InitJWT(cfg.JWTSecret)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	// --- File Store Directories ---
	for _, dir := range []string{"uploads/degrees", "uploads/scans"} {
		if err := os.MkdirAll(filepath.Join(cfg.UploadDir, dir), 0o755); err != nil {
			log.Fatalf("Failed to create upload directory %s: %v", dir, err)
		}
	}

	// --- Initialize Services ---
	mailer := services.NewSMTPMailer(cfg.SMTP)
	analyzer := services.NewModelClient(cfg.ModelAPIURL)

	// --- Initialize Handlers with DB and Services ---
	h := handlers.NewHandler(db, mailer, analyzer, cfg)

	// --- Gin Router ---
	r := gin.Default()

	// --- Middleware ---
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Uploaded degrees and scans are served by path.
	r.Static("/static", cfg.UploadDir)

	// --- Routes ---
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/signup/patient", h.SignupPatient)
		authRoutes.POST("/signup/doctor", h.SignupDoctor)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/forgot-password", h.ForgotPassword)
		authRoutes.POST("/reset-password/:token", h.ResetPassword)
	}

	adminRoutes := r.Group("/api/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/users", h.ListUsers)
		adminRoutes.PUT("/verify-doctor/:id", h.VerifyDoctor)
		adminRoutes.DELETE("/delete-user/:id", h.DeleteUser)
	}

	doctorRoutes := r.Group("/api/doctors")
	doctorRoutes.Use(middleware.AuthMiddleware())
	{
		doctorRoutes.GET("/list", h.ListDoctors)
	}

	analysisRoutes := r.Group("/api/analysis")
	analysisRoutes.Use(middleware.AuthMiddleware())
	{
		analysisRoutes.POST("/upload", middleware.RequireRole(models.RolePatient), h.UploadScan)
		analysisRoutes.GET("/patient-data/:name", middleware.RequireRole(models.RolePatient), h.PatientData)
		analysisRoutes.PUT("/process-patient/:scanId", middleware.RequireRole(models.RoleDoctor), h.ProcessPatientScan)
		analysisRoutes.GET("/doctor-data/:name", middleware.RequireRole(models.RoleDoctor), h.DoctorData)
		analysisRoutes.POST("/process-direct", middleware.RequireRole(models.RoleDoctor), h.ProcessDirect)
		analysisRoutes.GET("/report/:reportId/export", h.ExportReport)
	}

	log.Printf("Starting server on port %s", cfg.APIPort)
	r.Run(":" + cfg.APIPort)
}
