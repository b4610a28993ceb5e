package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meditrack/meditrack-api/internal/models"
)

type createFeedbackRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Message  string `json:"message" binding:"required"`
}

// CreateFeedback records a patient's rating of a doctor. Feedback is
// append-only and registered on both profiles.
func (h *Handler) CreateFeedback(c *gin.Context) {
	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	doctor, err := h.userByID(ctx, doctorID)
	if err != nil || doctor.Role != models.RoleDoctor {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found."})
		return
	}

	patient, err := h.userByID(ctx, patientID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	feedback := models.Feedback{
		ID:        primitive.NewObjectID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Rating:    req.Rating,
		Message:   req.Message,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if _, err := h.DB.Collection("feedbacks").InsertOne(ctx, feedback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
		"$push": bson.M{"feedbacks": feedback.ID},
		"$set":  bson.M{"updatedAt": now()},
	}); err != nil {
		log.Error().Err(err).Str("feedback", feedback.ID.Hex()).Msg("patient feedback back-reference push failed")
	}
	if _, err := h.DB.Collection("doctors").UpdateByID(ctx, doctor.ProfileID, bson.M{
		"$push": bson.M{"feedbacks": feedback.ID},
		"$set":  bson.M{"updatedAt": now()},
	}); err != nil {
		log.Error().Err(err).Str("feedback", feedback.ID.Hex()).Msg("doctor feedback back-reference push failed")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Feedback created successfully.", "data": feedback})
}
