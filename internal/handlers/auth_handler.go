package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/models"
	"github.com/meditrack/meditrack-api/internal/utils"
)

type sendOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOtp issues a fresh verification code to an address that is not yet
// registered. The code itself only travels by email, never in the body.
func (h *Handler) SendOtp(c *gin.Context) {
	var req sendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	ctx := c.Request.Context()

	count, err := h.DB.Collection("users").CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists."})
		return
	}

	if err := utils.EmailDomainHasMX(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address."})
		return
	}

	otps := h.DB.Collection("otps")

	// Regenerate until the code is unique among live OTP records.
	var code string
	for {
		code, err = utils.GenerateOTP()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		n, err := otps.CountDocuments(ctx, bson.M{"otp": code, "expiresAt": bson.M{"$gt": now()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		if n == 0 {
			break
		}
	}

	record := models.Otp{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Otp:       code,
		ExpiresAt: now().Add(models.OtpTTL),
		CreatedAt: now(),
	}
	if _, err := otps.InsertOne(ctx, record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	if err := h.Mail.SendOTP(req.Email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending OTP."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully."})
}

type signupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6"`
	PhoneNumber     string `json:"phone_number" binding:"required,min=10"`
	Age             int    `json:"age" binding:"required,max=100"`
	Gender          string `json:"gender" binding:"required,oneof=Male Female Other"`
	Role            string `json:"role" binding:"required,oneof=Patient Doctor Admin"`
	Otp             string `json:"otp" binding:"required,len=6,numeric"`
}

// Signup verifies the OTP sent to the address, creates the role profile
// and the user document. OTP records for the address are consumed on
// success so a code cannot be replayed.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if err := utils.EmailDomainHasMX(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address."})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match."})
		return
	}

	ctx := c.Request.Context()
	users := h.DB.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists."})
		return
	}

	// Latest OTP for the address must match and still be live.
	var recent models.Otp
	err = h.DB.Collection("otps").FindOne(ctx, bson.M{"email": req.Email},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})).Decode(&recent)
	if err != nil || recent.Otp != req.Otp || recent.ExpiresAt.Before(now()) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid OTP."})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	image := fmt.Sprintf("https://api.dicebear.com/5.x/initials/svg?seed=%s%%20%s", req.FirstName, req.LastName)

	var profileID primitive.ObjectID
	switch req.Role {
	case models.RolePatient:
		profile := models.Patient{
			ID:             primitive.NewObjectID(),
			Image:          image,
			Appointments:   []primitive.ObjectID{},
			Feedbacks:      []primitive.ObjectID{},
			VisitedDoctors: []primitive.ObjectID{},
			HealthRecords:  []primitive.ObjectID{},
			LabReports:     []primitive.ObjectID{},
			Prescriptions:  []primitive.ObjectID{},
			CreatedAt:      now(),
			UpdatedAt:      now(),
		}
		if _, err := h.DB.Collection("patients").InsertOne(ctx, profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		profileID = profile.ID
	case models.RoleDoctor:
		profile := models.Doctor{
			ID:              primitive.NewObjectID(),
			Image:           image,
			Specialization:  []primitive.ObjectID{},
			VisitedPatients: []primitive.ObjectID{},
			Appointments:    []primitive.ObjectID{},
			Feedbacks:       []primitive.ObjectID{},
			CreatedAt:       now(),
			UpdatedAt:       now(),
		}
		if _, err := h.DB.Collection("doctors").InsertOne(ctx, profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		profileID = profile.ID
	}

	user := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    hashed,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		Gender:      req.Gender,
		Role:        req.Role,
		ProfileID:   profileID,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	if _, err := users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	// Consume the verification codes so they cannot be replayed.
	if _, err := h.DB.Collection("otps").DeleteMany(ctx, bson.M{"email": req.Email}); err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("failed to consume otp records")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User created successfully."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login issues a session token as an HTTP-only cookie, mirrored in the
// response body.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if err := utils.EmailDomainHasMX(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address."})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials."})
		return
	}

	token, err := utils.GenerateJWT([]byte(h.Cfg.JWTSecret), user.ID.Hex(), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	c.SetCookie("token", token, int(utils.SessionLifetime/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully.",
		"token":   token,
		"user":    user,
	})
}

// Logout clears the session cookie. Sessions are stateless, so there is
// nothing to revoke server-side.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully."})
}

type resetTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordToken stores a hashed one-time token on the user and mails
// the raw token embedded in a reset URL. The raw token is never returned
// by the API.
func (h *Handler) ResetPasswordToken(c *gin.Context) {
	var req resetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if err := utils.EmailDomainHasMX(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address."})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	raw, hashed := utils.NewResetToken()
	_, err := h.DB.Collection("users").UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": now().Add(utils.ResetTokenLifetime),
		"updatedAt":           now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", h.Cfg.ClientURL, raw)
	if err := h.Mail.SendPasswordReset(req.Email, resetURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending reset email."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reset link sent successfully."})
}

type resetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6"`
}

// ResetPassword replaces the password for the user whose stored token
// hash matches and has not expired. Clearing the token fields makes the
// token single-use.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match."})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{
		"resetPasswordToken":  utils.HashToken(req.Token),
		"resetPasswordExpire": bson.M{"$gt": now()},
	}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token."})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	_, err = h.DB.Collection("users").UpdateByID(ctx, user.ID, bson.M{
		"$set":   bson.M{"password": hashed, "updatedAt": now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully."})
}

// Me returns the authenticated user with a role-dependent projection of
// their profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	switch user.Role {
	case models.RoleDoctor:
		profile, err := h.doctorProfileView(ctx, user.ProfileID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Doctor profile not found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User retrieved successfully.", "data": gin.H{"user": user, "profile": profile}})
	case models.RolePatient:
		var profile models.Patient
		if err := h.DB.Collection("patients").FindOne(ctx, bson.M{"_id": user.ProfileID}).Decode(&profile); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Patient profile not found."})
			return
		}
		// Appointment and feedback lists stay private on this view.
		view := gin.H{
			"id":              profile.ID,
			"date_of_birth":   profile.DateOfBirth,
			"image":           profile.Image,
			"address":         profile.Address,
			"blood_group":     profile.BloodGroup,
			"visited_doctors": profile.VisitedDoctors,
			"health_records":  profile.HealthRecords,
			"lab_reports":     profile.LabReports,
			"prescriptions":   profile.Prescriptions,
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User retrieved successfully.", "data": gin.H{"user": user, "profile": view}})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User retrieved successfully.", "data": gin.H{"user": user}})
	}
}
