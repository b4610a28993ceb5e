package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/config"
	"github.com/meditrack/meditrack-api/internal/handlers"
	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Services and handlers ---
	mail := services.NewMailService(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	h := handlers.NewHandler(db, mail, cfg)

	// --- Gin router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	auth := middleware.Auth(secret)

	userRoutes := r.Group("/user")
	{
		userRoutes.POST("/signup", h.Signup)
		userRoutes.POST("/login", h.Login)
		userRoutes.POST("/sendOtp", h.SendOtp)
		userRoutes.GET("/logout", auth, h.Logout)
		userRoutes.POST("/resetPasswordToken", h.ResetPasswordToken)
		userRoutes.POST("/forgotPassword", h.ResetPassword)
		userRoutes.GET("/me", auth, h.Me)
	}

	doctorRoutes := r.Group("/doctor", auth)
	{
		doctorRoutes.PUT("/update-profile", middleware.RequireDoctor(), h.UpdateDoctorProfile)
		doctorRoutes.GET("/getAllDoctors", h.GetAllDoctors)
		doctorRoutes.GET("/getDoctor/:id", h.GetDoctorByID)
		doctorRoutes.GET("/me", middleware.RequireDoctor(), h.DoctorMe)
		doctorRoutes.GET("/getDoctorBySpecialization/:specialization", h.GetDoctorsBySpecialization)
		doctorRoutes.GET("/getDoctorByAvailability/:availability", h.GetDoctorsByAvailability)
		doctorRoutes.GET("/getDoctorByExperience/:experience", h.GetDoctorsByExperience)
		doctorRoutes.GET("/getPatients", middleware.RequireDoctor(), h.GetMyPatients)
	}

	patientRoutes := r.Group("/patient", auth)
	{
		patientRoutes.PUT("/update-profile", middleware.RequirePatient(), h.UpdatePatientProfile)
		patientRoutes.GET("/getAllPatients", middleware.RequireAdmin(), h.GetAllPatients)
		patientRoutes.GET("/getPatient/:id", h.GetPatientByID)
		patientRoutes.GET("/appointments", middleware.RequirePatient(), h.MyAppointments)
		patientRoutes.GET("/visitedDoctors", middleware.RequirePatient(), h.MyVisitedDoctors)
		patientRoutes.GET("/healthRecords", middleware.RequirePatient(), h.MyHealthRecords)
		patientRoutes.GET("/labReports", middleware.RequirePatient(), h.MyLabReports)
		patientRoutes.GET("/prescriptions", middleware.RequirePatient(), h.MyPrescriptions)
		patientRoutes.GET("/feedbacks", middleware.RequirePatient(), h.MyFeedbacks)
	}

	appointmentRoutes := r.Group("/appointment", auth)
	{
		appointmentRoutes.POST("/create", middleware.RequirePatient(), h.CreateAppointment)
		appointmentRoutes.GET("/my", middleware.RequirePatient(), h.MyAppointments)
		appointmentRoutes.DELETE("/cancel/:id", middleware.RequirePatient(), h.CancelAppointment)
		appointmentRoutes.PATCH("/complete/:id", middleware.RequireDoctor(), h.CompleteAppointment)
	}

	prescriptionRoutes := r.Group("/prescription", auth, middleware.RequireDoctor())
	{
		prescriptionRoutes.POST("/create", h.CreatePrescription)
		prescriptionRoutes.PUT("/update", h.UpdatePrescription)
		prescriptionRoutes.DELETE("/delete", h.DeletePrescription)
	}

	healthRecordRoutes := r.Group("/healthRecord", auth, middleware.RequirePatient())
	{
		healthRecordRoutes.POST("/create", h.CreateHealthRecord)
		healthRecordRoutes.PUT("/update/:id", h.UpdateHealthRecord)
		healthRecordRoutes.DELETE("/delete/:id", h.DeleteHealthRecord)
	}

	labRecordRoutes := r.Group("/labRecord", auth, middleware.RequireDoctor())
	{
		labRecordRoutes.POST("/create", h.CreateLabRecord)
	}

	feedbackRoutes := r.Group("/feedback", auth, middleware.RequirePatient())
	{
		feedbackRoutes.POST("/create", h.CreateFeedback)
	}

	notificationRoutes := r.Group("/notification", auth)
	{
		notificationRoutes.POST("/create", h.CreateNotification)
		notificationRoutes.GET("/my", h.MyNotifications)
		notificationRoutes.PATCH("/read/:id", h.MarkNotificationRead)
	}

	specializationRoutes := r.Group("/specialization", auth)
	{
		specializationRoutes.POST("/add", middleware.RequireAdmin(), h.AddSpecialization)
		specializationRoutes.DELETE("/remove", middleware.RequireAdmin(), h.RemoveSpecialization)
		specializationRoutes.GET("/getAll", h.GetAllSpecializations)
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// ensureIndexes creates the unique and TTL indexes the handlers rely on.
// OTP eviction is entirely store-side: expiresAt carries a TTL index with
// zero grace.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("specializations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("otps").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
