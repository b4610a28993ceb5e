package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meditrack/meditrack-api/internal/models"
)

type addSpecializationRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddSpecialization registers a new specialization. Names are lowercased
// before storage so uniqueness is case-insensitive.
func (h *Handler) AddSpecialization(c *gin.Context) {
	var req addSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	ctx := c.Request.Context()
	specializations := h.DB.Collection("specializations")

	count, err := specializations.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Specialization already exists."})
		return
	}

	spec := models.Specialization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if _, err := specializations.InsertOne(ctx, spec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Specialization already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Specialization added successfully.", "data": spec})
}

type removeSpecializationRequest struct {
	ID string `json:"id" binding:"required"`
}

// RemoveSpecialization deletes a specialization by ID. A second removal
// of the same ID fails with not found.
func (h *Handler) RemoveSpecialization(c *gin.Context) {
	var req removeSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	result, err := h.DB.Collection("specializations").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Specialization does not exist."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Specialization removed successfully."})
}

// GetAllSpecializations lists specializations with a case-insensitive
// substring filter on the name.
func (h *Handler) GetAllSpecializations(c *gin.Context) {
	filter := c.Query("filter")

	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("specializations").Find(ctx, bson.M{
		"name": bson.M{"$regex": filter, "$options": "i"},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var specializations []models.Specialization
	if err := cursor.All(ctx, &specializations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if specializations == nil {
		specializations = make([]models.Specialization, 0)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Specializations retrieved successfully.", "data": specializations})
}
