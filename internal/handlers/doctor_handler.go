package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/models"
)

// doctorProfileView resolves a doctor profile with specialization names
// expanded and the visited-patient list withheld.
func (h *Handler) doctorProfileView(ctx context.Context, profileID primitive.ObjectID) (gin.H, error) {
	var profile models.Doctor
	if err := h.DB.Collection("doctors").FindOne(ctx, bson.M{"_id": profileID}).Decode(&profile); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profile.Specialization))
	for _, specID := range profile.Specialization {
		var spec models.Specialization
		if err := h.DB.Collection("specializations").FindOne(ctx, bson.M{"_id": specID}).Decode(&spec); err == nil {
			names = append(names, spec.Name)
		}
	}

	return gin.H{
		"id":             profile.ID,
		"image":          profile.Image,
		"specialization": names,
		"licenseNumber":  profile.LicenseNumber,
		"experience":     profile.Experience,
		"availability":   profile.Availability,
		"appointments":   profile.Appointments,
		"feedbacks":      profile.Feedbacks,
	}, nil
}

type updateDoctorProfileRequest struct {
	Specialization *string `json:"specialization"`
	LicenseNumber  *int    `json:"licenseNumber"`
	Experience     *int    `json:"experience"`
	Availability   *bool   `json:"availability"`
}

// UpdateDoctorProfile partially updates the caller's doctor profile. A
// supplied specialization ID is appended, not replaced.
func (h *Handler) UpdateDoctorProfile(c *gin.Context) {
	var req updateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if req.Specialization == nil && req.LicenseNumber == nil && req.Experience == nil && req.Availability == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide data to update."})
		return
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

	set := bson.M{"updatedAt": now()}
	if req.LicenseNumber != nil {
		set["licenseNumber"] = *req.LicenseNumber
	}
	if req.Experience != nil {
		set["experience"] = *req.Experience
	}
	if req.Availability != nil {
		set["availability"] = *req.Availability
	}

	update := bson.M{"$set": set}
	if req.Specialization != nil {
		specID, err := primitive.ObjectIDFromHex(*req.Specialization)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
			return
		}
		if err := h.DB.Collection("specializations").FindOne(ctx, bson.M{"_id": specID}).Err(); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Specialization not found."})
			return
		}
		update["$addToSet"] = bson.M{"specialization": specID}
	}

	result, err := h.DB.Collection("doctors").UpdateByID(ctx, user.ProfileID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor profile not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully."})
}

// GetAllDoctors lists doctors with case-insensitive name filtering and
// page/limit pagination. Profiles carry visit and feedback counts in
// place of the raw reference lists.
func (h *Handler) GetAllDoctors(c *gin.Context) {
	filter := c.Query("filter")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	ctx := c.Request.Context()

	query := bson.M{
		"role": models.RoleDoctor,
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

	var doctors []models.User
	if err := cursor.All(ctx, &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	rows := make([]gin.H, 0, len(doctors))
	for _, doc := range doctors {
		row := gin.H{
			"id":           doc.ID,
			"firstName":    doc.FirstName,
			"lastName":     doc.LastName,
			"email":        doc.Email,
			"phone_number": doc.PhoneNumber,
			"gender":       doc.Gender,
		}
		var profile models.Doctor
		if err := h.DB.Collection("doctors").FindOne(ctx, bson.M{"_id": doc.ProfileID}).Decode(&profile); err == nil {
			row["profile"] = gin.H{
				"image":                  profile.Image,
				"specialization":         profile.Specialization,
				"licenseNumber":          profile.LicenseNumber,
				"experience":             profile.Experience,
				"availability":           profile.Availability,
				"visited_patients_count": len(profile.VisitedPatients),
				"feedbacks_count":        len(profile.Feedbacks),
			}
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All Doctors retrieved successfully.",
		"data":    rows,
		"page":    page,
		"limit":   limit,
	})
}

// GetDoctorByID returns one doctor with specializations resolved.
func (h *Handler) GetDoctorByID(c *gin.Context) {
	h.doctorView(c, c.Param("id"))
}

// DoctorMe returns the calling doctor's own view.
func (h *Handler) DoctorMe(c *gin.Context) {
	h.doctorView(c, c.GetString(middleware.CtxUserID))
}

func (h *Handler) doctorView(c *gin.Context, idHex string) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid doctor ID."})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	err = h.DB.Collection("users").FindOne(ctx, bson.M{"_id": id, "role": models.RoleDoctor}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found."})
		return
	}

	profile, err := h.doctorProfileView(ctx, user.ProfileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Doctor retrieved successfully.",
		"data":    gin.H{"user": user, "profile": profile},
	})
}

// GetDoctorsBySpecialization lists doctors holding the named
// specialization.
func (h *Handler) GetDoctorsBySpecialization(c *gin.Context) {
	name := strings.ToLower(c.Param("specialization"))

	ctx := c.Request.Context()

	var spec models.Specialization
	if err := h.DB.Collection("specializations").FindOne(ctx, bson.M{"name": name}).Decode(&spec); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Specialization not found."})
		return
	}

	h.listDoctorsByProfile(c, bson.M{"specialization": spec.ID})
}

// GetDoctorsByAvailability filters doctors on the availability flag.
func (h *Handler) GetDoctorsByAvailability(c *gin.Context) {
	available, err := strconv.ParseBool(c.Param("availability"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}
	h.listDoctorsByProfile(c, bson.M{"availability": available})
}

// GetDoctorsByExperience filters doctors on exact years of experience.
func (h *Handler) GetDoctorsByExperience(c *gin.Context) {
	years, err := strconv.Atoi(c.Param("experience"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}
	h.listDoctorsByProfile(c, bson.M{"experience": years})
}

func (h *Handler) listDoctorsByProfile(c *gin.Context, profileFilter bson.M) {
	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("doctors").Find(ctx, profileFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var profiles []models.Doctor
	if err := cursor.All(ctx, &profiles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	rows := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		var user models.User
		err := h.DB.Collection("users").FindOne(ctx, bson.M{"profileId": profile.ID, "role": models.RoleDoctor}).Decode(&user)
		if err != nil {
			continue
		}
		view, err := h.doctorProfileView(ctx, profile.ID)
		if err != nil {
			continue
		}
		rows = append(rows, gin.H{"user": partyView(&user), "profile": view})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Doctors retrieved successfully.", "data": rows})
}

// GetMyPatients lists the visited patients of the calling doctor with a
// contact-card projection.
func (h *Handler) GetMyPatients(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.userByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor not found."})
		return
	}

	var profile models.Doctor
	if err := h.DB.Collection("doctors").FindOne(ctx, bson.M{"_id": user.ProfileID}).Decode(&profile); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor profile not found."})
		return
	}

	patients := make([]gin.H, 0, len(profile.VisitedPatients))
	for _, pid := range profile.VisitedPatients {
		if patient, err := h.userByID(ctx, pid); err == nil {
			patients = append(patients, partyView(patient))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Patients retrieved successfully.", "data": patients})
}
