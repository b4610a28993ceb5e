package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meditrack/meditrack-api/internal/models"
)

type createPrescriptionRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	AppointmentID string `json:"appointmentId" binding:"required"`
	Medication    string `json:"medication" binding:"required"`
	Dosage        string `json:"dosage" binding:"required"`
}

// CreatePrescription records a prescription written by the calling
// doctor and registers it on the patient's profile.
func (h *Handler) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
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

	prescription := models.Prescription{
		ID:            primitive.NewObjectID(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}
	if _, err := h.DB.Collection("prescriptions").InsertOne(ctx, prescription); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
		"$push": bson.M{"prescriptions": prescription.ID},
		"$set":  bson.M{"updatedAt": now()},
	}); err != nil {
		log.Error().Err(err).Str("prescription", prescription.ID.Hex()).Msg("prescription back-reference push failed")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Prescription created successfully.", "data": prescription})
}

type updatePrescriptionRequest struct {
	PrescriptionID string `json:"prescriptionId" binding:"required"`
	Medication     string `json:"medication" binding:"required"`
	Dosage         string `json:"dosage" binding:"required"`
}

// UpdatePrescription replaces the medication and dosage on a
// prescription written by the caller.
func (h *Handler) UpdatePrescription(c *gin.Context) {
	var req updatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	prescriptionID, err := primitive.ObjectIDFromHex(req.PrescriptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	doctorID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	result, err := h.DB.Collection("prescriptions").UpdateOne(c.Request.Context(),
		bson.M{"_id": prescriptionID, "doctorId": doctorID},
		bson.M{"$set": bson.M{"medication": req.Medication, "dosage": req.Dosage, "updatedAt": now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Prescription not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prescription updated successfully."})
}

type deletePrescriptionRequest struct {
	PrescriptionID string `json:"prescriptionId" binding:"required"`
}

// DeletePrescription removes a prescription written by the caller and
// pulls it from the patient's profile.
func (h *Handler) DeletePrescription(c *gin.Context) {
	var req deletePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	prescriptionID, err := primitive.ObjectIDFromHex(req.PrescriptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	doctorID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	var prescription models.Prescription
	err = h.DB.Collection("prescriptions").FindOne(ctx, bson.M{"_id": prescriptionID, "doctorId": doctorID}).Decode(&prescription)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Prescription not found."})
		return
	}

	if _, err := h.DB.Collection("prescriptions").DeleteOne(ctx, bson.M{"_id": prescriptionID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if patient, err := h.userByID(ctx, prescription.PatientID); err == nil {
		if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
			"$pull": bson.M{"prescriptions": prescription.ID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("prescription", prescription.ID.Hex()).Msg("prescription back-reference pull failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prescription deleted successfully.", "data": prescription})
}
