package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meditrack/meditrack-api/internal/models"
)

type createLabRecordRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	AppointmentID string `json:"appointmentId" binding:"required"`
	TestName      string `json:"testName" binding:"required"`
	TestResult    string `json:"testResult" binding:"required"`
	FilePath      string `json:"filePath" binding:"required"`
}

// CreateLabRecord stores a lab result. The calling doctor must hold a
// confirmed appointment with the patient; anything else is treated as a
// failed ownership join.
func (h *Handler) CreateLabRecord(c *gin.Context) {
	var req createLabRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	patientID, err1 := primitive.ObjectIDFromHex(req.PatientID)
	appointmentID, err2 := primitive.ObjectIDFromHex(req.AppointmentID)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	doctorID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	patient, err := h.userByID(ctx, patientID)
	if err != nil || patient.Role != models.RolePatient {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient not found."})
		return
	}

	err = h.DB.Collection("appointments").FindOne(ctx, bson.M{
		"_id":       appointmentID,
		"patientId": patientID,
		"doctorId":  doctorID,
		"status":    models.AppointmentConfirmed,
	}).Err()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Appointment not found."})
		return
	}

	record := models.LabRecord{
		ID:            primitive.NewObjectID(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		TestName:      req.TestName,
		TestResult:    req.TestResult,
		FilePath:      req.FilePath,
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}
	if _, err := h.DB.Collection("labrecords").InsertOne(ctx, record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
		"$push": bson.M{"lab_reports": record.ID},
		"$set":  bson.M{"updatedAt": now()},
	}); err != nil {
		log.Error().Err(err).Str("record", record.ID.Hex()).Msg("lab-record back-reference push failed")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Lab record created successfully.", "data": record})
}
