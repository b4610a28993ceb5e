package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meditrack/meditrack-api/internal/models"
)

type createNotificationRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateNotification stores an in-app notification for a user, unread
// by default.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid data."})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.userByID(ctx, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
		return
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     req.Title,
		Message:   req.Message,
		IsRead:    false,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if _, err := h.DB.Collection("notifications").InsertOne(ctx, notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Notification created successfully.", "data": notification})
}

// MyNotifications lists the caller's notifications, newest first.
func (h *Handler) MyNotifications(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("notifications").Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if notifications == nil {
		notifications = make([]models.Notification, 0)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notifications retrieved successfully.", "data": notifications})
}

// MarkNotificationRead flips isRead on a notification owned by the
// caller.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID."})
		return
	}

	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
		return
	}

	result, err := h.DB.Collection("notifications").UpdateOne(c.Request.Context(),
		bson.M{"_id": notificationID, "user_id": userID},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read."})
}
