package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/models"
)

func (h *Handler) userByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type createAppointmentRequest struct {
	DoctorID string   `json:"doctorId" binding:"required"`
	DateTime string   `json:"dateTime" binding:"required"`
	Disease  []string `json:"disease" binding:"required"`
	Notes    string   `json:"notes"`
}

// CreateAppointment books the caller (a patient) with a doctor. The new
// appointment is registered on both profiles, and each party is added to
// the other's visited list. These are sequential writes with no
// cross-document transaction.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
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

	apt := models.Appointment{
		ID:        primitive.NewObjectID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		DateTime:  dateTime,
		Status:    models.AppointmentConfirmed,
		Disease:   req.Disease,
		Notes:     req.Notes,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if _, err := h.DB.Collection("appointments").InsertOne(ctx, apt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	_, err = h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
		"$push":     bson.M{"appointments": apt.ID},
		"$addToSet": bson.M{"visited_doctors": doctorID},
		"$set":      bson.M{"updatedAt": now()},
	})
	if err != nil {
		log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("patient back-reference update failed")
	}
	_, err = h.DB.Collection("doctors").UpdateByID(ctx, doctor.ProfileID, bson.M{
		"$push":     bson.M{"appointments": apt.ID},
		"$addToSet": bson.M{"visited_patients": patientID},
		"$set":      bson.M{"updatedAt": now()},
	})
	if err != nil {
		log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("doctor back-reference update failed")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Appointment created successfully.", "data": apt})
}

// CancelAppointment deletes a non-completed appointment owned by the
// caller and pulls its ID from both back-reference lists.
func (h *Handler) CancelAppointment(c *gin.Context) {
	appointmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid appointment ID."})
		return
	}

	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	var apt models.Appointment
	err = h.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": appointmentID, "patientId": patientID}).Decode(&apt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Appointment not found."})
		return
	}

	if apt.Status == models.AppointmentCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot cancel a completed appointment."})
		return
	}

	// The status guard is part of the delete filter so a completion
	// landing after the read above cannot be undone by this delete.
	result, err := h.DB.Collection("appointments").DeleteOne(ctx, bson.M{
		"_id":       appointmentID,
		"patientId": patientID,
		"status":    bson.M{"$ne": models.AppointmentCompleted},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot cancel a completed appointment."})
		return
	}

	h.pullAppointmentRefs(ctx, &apt)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment cancelled successfully."})
}

func (h *Handler) pullAppointmentRefs(ctx context.Context, apt *models.Appointment) {
	if patient, err := h.userByID(ctx, apt.PatientID); err == nil {
		if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
			"$pull": bson.M{"appointments": apt.ID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("patient back-reference pull failed")
		}
	}
	if doctor, err := h.userByID(ctx, apt.DoctorID); err == nil {
		if _, err := h.DB.Collection("doctors").UpdateByID(ctx, doctor.ProfileID, bson.M{
			"$pull": bson.M{"appointments": apt.ID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("doctor back-reference pull failed")
		}
	}
}

// CompleteAppointment flips a confirmed appointment to completed. The
// transition is one-way; completing twice is rejected. Each party is
// dropped from the other's visited list on completion.
func (h *Handler) CompleteAppointment(c *gin.Context) {
	appointmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid appointment ID."})
		return
	}

	doctorID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	var apt models.Appointment
	err = h.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": appointmentID, "doctorId": doctorID}).Decode(&apt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Appointment not found."})
		return
	}

	if apt.Status == models.AppointmentCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Appointment is already completed."})
		return
	}

	_, err = h.DB.Collection("appointments").UpdateByID(ctx, appointmentID, bson.M{
		"$set": bson.M{"status": models.AppointmentCompleted, "updatedAt": now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if patient, err := h.userByID(ctx, apt.PatientID); err == nil {
		if _, err := h.DB.Collection("patients").UpdateByID(ctx, patient.ProfileID, bson.M{
			"$pull": bson.M{"visited_doctors": apt.DoctorID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("visited_doctors pull failed")
		}
	}
	if doctor, err := h.userByID(ctx, apt.DoctorID); err == nil {
		if _, err := h.DB.Collection("doctors").UpdateByID(ctx, doctor.ProfileID, bson.M{
			"$pull": bson.M{"visited_patients": apt.PatientID},
			"$set":  bson.M{"updatedAt": now()},
		}); err != nil {
			log.Error().Err(err).Str("appointment", apt.ID.Hex()).Msg("visited_patients pull failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment completed successfully."})
}

// MyAppointments lists the caller's appointments newest first, with both
// party names resolved one level deep.
func (h *Handler) MyAppointments(c *gin.Context) {
	patientID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("appointments").Find(ctx, bson.M{"patientId": patientID},
		options.Find().SetSort(bson.D{{Key: "dateTime", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	rows := make([]gin.H, 0, len(appointments))
	for _, apt := range appointments {
		row := gin.H{
			"id":       apt.ID,
			"dateTime": apt.DateTime,
			"status":   apt.Status,
			"disease":  apt.Disease,
			"notes":    apt.Notes,
		}
		if patient, err := h.userByID(ctx, apt.PatientID); err == nil {
			row["patient"] = partyView(patient)
		}
		if doctor, err := h.userByID(ctx, apt.DoctorID); err == nil {
			row["doctor"] = partyView(doctor)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointments retrieved successfully.", "data": rows})
}

func partyView(u *models.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"firstName":    u.FirstName,
		"lastName":     u.LastName,
		"email":        u.Email,
		"phone_number": u.PhoneNumber,
	}
}
