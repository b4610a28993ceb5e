package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meditrack/meditrack-api/internal/models"
)

type healthRecordRequest struct {
	Disease     []string `json:"disease" binding:"required"`
	Description string   `json:"description" binding:"required"`
}

// CreateHealthRecord stores a record owned by the calling patient and
// registers it on their profile.
func (h *Handler) CreateHealthRecord(c *gin.Context) {
	var req healthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	record := models.HealthRecord{
		ID:          primitive.NewObjectID(),
		PatientID:   patientID,
		Disease:     req.Disease,
		Description: req.Description,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	if _, err := h.DB.Collection("healthrecords").InsertOne(ctx, record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if patient, err := h.userByID(ctx, patientID); err == nil {
		if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
			"$push": bson.M{"health_records": record.ID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("record", record.ID.Hex()).Msg("health-record back-reference push failed")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Health record created successfully.", "data": record})
}

// UpdateHealthRecord replaces the disease list and description on a
// record owned by the caller.
func (h *Handler) UpdateHealthRecord(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid record ID."})
		return
	}

	var req healthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	result, err := h.DB.Collection("healthrecords").UpdateOne(c.Request.Context(),
		bson.M{"_id": recordID, "patient_id": patientID},
		bson.M{"$set": bson.M{"disease": req.Disease, "description": req.Description, "updatedAt": now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Health record not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Health record updated successfully."})
}

// DeleteHealthRecord removes a record owned by the caller and pulls it
// from their profile.
func (h *Handler) DeleteHealthRecord(c *gin.Context) {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid record ID."})
		return
	}

	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	result, err := h.DB.Collection("healthrecords").DeleteOne(ctx, bson.M{"_id": recordID, "patient_id": patientID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Health record not found."})
		return
	}

	if patient, err := h.userByID(ctx, patientID); err == nil {
		if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
			"$pull": bson.M{"health_records": recordID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("record", recordID.Hex()).Msg("health-record back-reference pull failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Health record deleted successfully."})
}
