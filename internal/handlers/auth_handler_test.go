package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/meditrack/meditrack-api/internal/config"
)

func resetRouter(mt *mtest.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(mt.DB, nil, &config.Config{JWTSecret: string(testSecret)})

	r := gin.New()
	r.POST("/user/forgotPassword", h.ResetPassword)
	return r
}

// A token that matches no stored hash, matches a cleared hash, or has
// passed its expiry all fall out of the same indexed lookup, so one
// empty result covers the consumed and expired cases alike.
func TestResetPassword_RejectsUnknownOrExpiredToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no matching live token", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch))

		r := resetRouter(mt)
		body := `{"token":"consumed-or-expired","password":"secret1","confirmPassword":"secret1"}`
		w := doJSON(mt.T, r, http.MethodPost, "/user/forgotPassword", body, "")
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid or expired token") {
			mt.Errorf("expected token rejection message, got %s", w.Body.String())
		}
	})
}
