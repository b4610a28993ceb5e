package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/meditrack/meditrack-api/internal/config"
	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/models"
)

// sessionOID is the ObjectID inside every test session token.
var sessionOID, _ = primitive.ObjectIDFromHex("64f000000000000000000001")

// appointmentRouter wires the lifecycle routes against a mock-backed
// database so the status guards past the first store read are reachable.
func appointmentRouter(mt *mtest.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(mt.DB, nil, &config.Config{JWTSecret: string(testSecret)})

	r := gin.New()
	auth := middleware.Auth(testSecret)
	r.DELETE("/appointment/cancel/:id", auth, middleware.RequirePatient(), h.CancelAppointment)
	r.PATCH("/appointment/complete/:id", auth, middleware.RequireDoctor(), h.CompleteAppointment)
	return r
}

func appointmentDoc(id, patientID, doctorID primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "patientId", Value: patientID},
		{Key: "doctorId", Value: doctorID},
		{Key: "status", Value: status},
	}
}

func TestCancelAppointment_RejectsCompleted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("completed appointment cannot be cancelled", func(mt *mtest.T) {
		aptID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, mt.DB.Name()+".appointments", mtest.FirstBatch,
			appointmentDoc(aptID, sessionOID, primitive.NewObjectID(), models.AppointmentCompleted)))

		r := appointmentRouter(mt)
		w := doJSON(mt.T, r, http.MethodDelete, "/appointment/cancel/"+aptID.Hex(), "", models.RolePatient)
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Cannot cancel") {
			mt.Errorf("expected cancel rejection message, got %s", w.Body.String())
		}
	})
}

func TestCancelAppointment_DeleteGuardedByStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	// The appointment reads as confirmed but the conditional delete
	// matches nothing, as when a completion lands between the two
	// operations. The cancel must report failure, not success.
	mt.Run("zero-match delete is rejected", func(mt *mtest.T) {
		aptID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".appointments", mtest.FirstBatch,
				appointmentDoc(aptID, sessionOID, primitive.NewObjectID(), models.AppointmentConfirmed)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		r := appointmentRouter(mt)
		w := doJSON(mt.T, r, http.MethodDelete, "/appointment/cancel/"+aptID.Hex(), "", models.RolePatient)
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestCancelAppointment_DeletesConfirmed(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("confirmed appointment is deleted", func(mt *mtest.T) {
		aptID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".appointments", mtest.FirstBatch,
				appointmentDoc(aptID, sessionOID, primitive.NewObjectID(), models.AppointmentConfirmed)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		r := appointmentRouter(mt)
		w := doJSON(mt.T, r, http.MethodDelete, "/appointment/cancel/"+aptID.Hex(), "", models.RolePatient)
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCompleteAppointment_RejectsAlreadyCompleted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("completing twice is rejected", func(mt *mtest.T) {
		aptID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, mt.DB.Name()+".appointments", mtest.FirstBatch,
			appointmentDoc(aptID, primitive.NewObjectID(), sessionOID, models.AppointmentCompleted)))

		r := appointmentRouter(mt)
		w := doJSON(mt.T, r, http.MethodPatch, "/appointment/complete/"+aptID.Hex(), "", models.RoleDoctor)
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "already completed") {
			mt.Errorf("expected already-completed message, got %s", w.Body.String())
		}
	})
}

func TestCompleteAppointment_FlipsConfirmed(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("confirmed appointment completes", func(mt *mtest.T) {
		aptID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".appointments", mtest.FirstBatch,
				appointmentDoc(aptID, primitive.NewObjectID(), sessionOID, models.AppointmentConfirmed)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		r := appointmentRouter(mt)
		w := doJSON(mt.T, r, http.MethodPatch, "/appointment/complete/"+aptID.Hex(), "", models.RoleDoctor)
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}
