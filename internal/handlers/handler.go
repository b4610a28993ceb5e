package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meditrack/meditrack-api/internal/config"
	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/services"
)

// Handler bundles the store handle and collaborating services every
// route needs. All route functions are methods on it.
type Handler struct {
	DB   *mongo.Database
	Mail *services.MailService
	Cfg  *config.Config
}

func NewHandler(db *mongo.Database, mail *services.MailService, cfg *config.Config) *Handler {
	return &Handler{
		DB:   db,
		Mail: mail,
		Cfg:  cfg,
	}
}

// sessionUserID returns the authenticated caller's ID as set by the auth
// middleware. The second return is false when the value is missing or
// malformed, which only happens on misconfigured routes.
func sessionUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func now() time.Time {
	return time.Now().UTC()
}
