package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/models"
)

type updatePatientProfileRequest struct {
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
	BloodGroup  *string `json:"blood_group"`
	Image       *string `json:"image"`
}

// UpdatePatientProfile partially updates the caller's patient profile.
func (h *Handler) UpdatePatientProfile(c *gin.Context) {
	var req updatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if req.Address == nil && req.DateOfBirth == nil && req.BloodGroup == nil && req.Image == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide data to update."})
		return
	}

	set := bson.M{"updatedAt": now()}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(time.RFC3339, *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
			return
		}
		set["date_of_birth"] = dob
	}
	if req.BloodGroup != nil {
		if !models.ValidBloodGroup(*req.BloodGroup) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
			return
		}
		set["blood_group"] = *req.BloodGroup
	}

	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.userByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	result, err := h.DB.Collection("patients").UpdateByID(ctx, user.ProfileID, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient profile not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully."})
}

// GetAllPatients lists patients for the admin view with name filtering
// and pagination.
func (h *Handler) GetAllPatients(c *gin.Context) {
	filter := c.Query("filter")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	ctx := c.Request.Context()

	query := bson.M{
		"role": models.RolePatient,
		"$or": []bson.M{
			{"firstName": bson.M{"$regex": filter, "$options": "i"}},
			{"lastName": bson.M{"$regex": filter, "$options": "i"}},
		},
	}

	cursor, err := h.DB.Collection("users").Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page-1)*limit)).
		SetLimit(int64(limit)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var patients []models.User
	if err := cursor.All(ctx, &patients); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	rows := make([]gin.H, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, h.patientSummary(c, &p))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Patients retrieved successfully.",
		"data":    rows,
		"page":    page,
		"limit":   limit,
	})
}

func (h *Handler) patientSummary(c *gin.Context, user *models.User) gin.H {
	row := gin.H{
		"id":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
		"age":          user.Age,
		"gender":       user.Gender,
	}
	var profile models.Patient
	if err := h.DB.Collection("patients").FindOne(c.Request.Context(), bson.M{"_id": user.ProfileID}).Decode(&profile); err == nil {
		row["profile"] = gin.H{
			"date_of_birth": profile.DateOfBirth,
			"address":       profile.Address,
			"blood_group":   profile.BloodGroup,
			"image":         profile.Image,
		}
	}
	return row
}

// GetPatientByID returns one patient's summary. Doctors and admins only.
func (h *Handler) GetPatientByID(c *gin.Context) {
	role := c.GetString(middleware.CtxUserRole)
	if role != models.RoleDoctor && role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden Access"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid patient ID."})
		return
	}

	var user models.User
	err = h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": id, "role": models.RolePatient}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Patient retrieved successfully.",
		"data":    h.patientSummary(c, &user),
	})
}

// MyVisitedDoctors lists the doctors the calling patient has open
// appointments with, including their specializations.
func (h *Handler) MyVisitedDoctors(c *gin.Context) {
	profile, ok := h.callerPatientProfile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	rows := make([]gin.H, 0, len(profile.VisitedDoctors))
	for _, did := range profile.VisitedDoctors {
		doctor, err := h.userByID(ctx, did)
		if err != nil {
			continue
		}
		row := partyView(doctor)
		if view, err := h.doctorProfileView(ctx, doctor.ProfileID); err == nil {
			row["profile"] = view
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Doctors retrieved successfully.", "data": rows})
}

// MyHealthRecords lists the caller's own health records.
func (h *Handler) MyHealthRecords(c *gin.Context) {
	h.listOwned(c, "healthrecords", "patient_id")
}

// MyLabReports lists the caller's lab records.
func (h *Handler) MyLabReports(c *gin.Context) {
	h.listOwned(c, "labrecords", "patientId")
}

// MyFeedbacks lists the feedback the caller has left.
func (h *Handler) MyFeedbacks(c *gin.Context) {
	h.listOwned(c, "feedbacks", "patient_id")
}

func (h *Handler) listOwned(c *gin.Context, collection, ownerField string) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	cursor, err := h.DB.Collection(collection).Find(ctx, bson.M{ownerField: userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if docs == nil {
		docs = make([]bson.M, 0)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Records retrieved successfully.", "data": docs})
}

// MyPrescriptions lists the caller's prescriptions with prescriber name
// and appointment date resolved.
func (h *Handler) MyPrescriptions(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("prescriptions").Find(ctx, bson.M{"patientId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	rows := make([]gin.H, 0, len(prescriptions))
	for _, p := range prescriptions {
		row := gin.H{
			"id":         p.ID,
			"medication": p.Medication,
			"dosage":     p.Dosage,
		}
		if doctor, err := h.userByID(ctx, p.DoctorID); err == nil {
			row["doctor"] = gin.H{"firstName": doctor.FirstName, "lastName": doctor.LastName}
		}
		var apt models.Appointment
		if err := h.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": p.AppointmentID}).Decode(&apt); err == nil {
			row["appointment"] = gin.H{"dateTime": apt.DateTime}
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prescriptions retrieved successfully.", "data": rows})
}

// callerPatientProfile resolves the calling patient's profile document,
// writing the error response itself when it cannot.
func (h *Handler) callerPatientProfile(c *gin.Context) (*models.Patient, bool) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return nil, false
	}

	ctx := c.Request.Context()

	user, err := h.userByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return nil, false
	}

	var profile models.Patient
	if err := h.DB.Collection("patients").FindOne(ctx, bson.M{"_id": user.ProfileID}).Decode(&profile); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient profile not found."})
		return nil, false
	}
	return &profile, true
}
