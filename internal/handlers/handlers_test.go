package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/meditrack/meditrack-api/internal/config"
	"github.com/meditrack/meditrack-api/internal/middleware"
	"github.com/meditrack/meditrack-api/internal/models"
	"github.com/meditrack/meditrack-api/internal/utils"
)

var testSecret = []byte("test-secret")

// newTestRouter wires the real middleware chain around a handler set
// with no live store. Only request paths that fail before the first
// store access are exercised here; everything deeper needs MongoDB.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, &config.Config{JWTSecret: string(testSecret)})

	r := gin.New()
	auth := middleware.Auth(testSecret)

	r.POST("/user/signup", h.Signup)
	r.POST("/user/login", h.Login)
	r.POST("/user/forgotPassword", h.ResetPassword)

	r.POST("/appointment/create", auth, middleware.RequirePatient(), h.CreateAppointment)
	r.DELETE("/appointment/cancel/:id", auth, middleware.RequirePatient(), h.CancelAppointment)
	r.PATCH("/appointment/complete/:id", auth, middleware.RequireDoctor(), h.CompleteAppointment)
	r.GET("/appointment/my", auth, middleware.RequirePatient(), h.MyAppointments)

	r.POST("/feedback/create", auth, middleware.RequirePatient(), h.CreateFeedback)
	r.POST("/prescription/create", auth, middleware.RequireDoctor(), h.CreatePrescription)
	r.PUT("/healthRecord/update/:id", auth, middleware.RequirePatient(), h.UpdateHealthRecord)
	r.POST("/notification/create", auth, h.CreateNotification)
	r.POST("/specialization/add", auth, middleware.RequireAdmin(), h.AddSpecialization)
	r.PUT("/doctor/update-profile", auth, middleware.RequireDoctor(), h.UpdateDoctorProfile)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := utils.GenerateJWT(testSecret, "64f000000000000000000001", role)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup_RejectsMissingFields(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/user/signup", `{"email":"a@b.com"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSignup_RejectsBadEnumAndOtpShape(t *testing.T) {
	r := newTestRouter()

	body := `{"firstName":"Ana","lastName":"Silva","email":"ana@example.com",
		"password":"secret1","confirmPassword":"secret1","phone_number":"0123456789",
		"age":30,"gender":"Unknown","role":"Patient","otp":"123456"}`
	if w := doJSON(t, r, http.MethodPost, "/user/signup", body, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad gender, got %d", w.Code)
	}

	body = `{"firstName":"Ana","lastName":"Silva","email":"ana@example.com",
		"password":"secret1","confirmPassword":"secret1","phone_number":"0123456789",
		"age":30,"gender":"Female","role":"Patient","otp":"12"}`
	if w := doJSON(t, r, http.MethodPost, "/user/signup", body, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short otp, got %d", w.Code)
	}
}

func TestSignup_RejectsOverAge(t *testing.T) {
	r := newTestRouter()
	body := `{"firstName":"Ana","lastName":"Silva","email":"ana@example.com",
		"password":"secret1","confirmPassword":"secret1","phone_number":"0123456789",
		"age":150,"gender":"Female","role":"Patient","otp":"123456"}`
	if w := doJSON(t, r, http.MethodPost, "/user/signup", body, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for age over 100, got %d", w.Code)
	}
}

func TestLogin_RejectsMalformedEmail(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/user/login", `{"email":"nope","password":"x"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestResetPassword_RejectsMismatch(t *testing.T) {
	r := newTestRouter()
	body := `{"token":"tok","password":"secret1","confirmPassword":"secret2"}`
	w := doJSON(t, r, http.MethodPost, "/user/forgotPassword", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Passwords do not match") {
		t.Errorf("expected password mismatch message, got %s", w.Body.String())
	}
}

func TestCreateAppointment_RequiresPatientRole(t *testing.T) {
	r := newTestRouter()
	body := `{"doctorId":"64f000000000000000000002","dateTime":"2026-09-01T10:00:00Z","disease":["flu"]}`
	if w := doJSON(t, r, http.MethodPost, "/appointment/create", body, models.RoleDoctor); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for doctor caller, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/appointment/create", body, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestMyAppointments_RequiresPatientSession(t *testing.T) {
	r := newTestRouter()
	if w := doJSON(t, r, http.MethodGet, "/appointment/my", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/appointment/my", "", models.RoleDoctor); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for doctor caller, got %d", w.Code)
	}
}

func TestCreateAppointment_RejectsBadDateTime(t *testing.T) {
	r := newTestRouter()
	body := `{"doctorId":"64f000000000000000000002","dateTime":"tomorrow","disease":["flu"]}`
	w := doJSON(t, r, http.MethodPost, "/appointment/create", body, models.RolePatient)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCancelAppointment_RejectsBadID(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodDelete, "/appointment/cancel/not-an-id", "", models.RolePatient)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCompleteAppointment_RejectsBadID(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPatch, "/appointment/complete/not-an-id", "", models.RoleDoctor)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateFeedback_RejectsOutOfRangeRating(t *testing.T) {
	r := newTestRouter()
	body := `{"doctorId":"64f000000000000000000002","rating":6,"message":"great"}`
	if w := doJSON(t, r, http.MethodPost, "/feedback/create", body, models.RolePatient); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 6, got %d", w.Code)
	}

	body = `{"doctorId":"64f000000000000000000002","rating":0,"message":"bad"}`
	if w := doJSON(t, r, http.MethodPost, "/feedback/create", body, models.RolePatient); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 0, got %d", w.Code)
	}
}

func TestCreatePrescription_RejectsMissingFields(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/prescription/create", `{"medication":"x"}`, models.RoleDoctor)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateHealthRecord_RejectsBadID(t *testing.T) {
	r := newTestRouter()
	body := `{"disease":["flu"],"description":"seasonal"}`
	w := doJSON(t, r, http.MethodPut, "/healthRecord/update/nope", body, models.RolePatient)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateNotification_RejectsBadUserID(t *testing.T) {
	r := newTestRouter()
	body := `{"userId":"not-hex","title":"t","message":"m"}`
	w := doJSON(t, r, http.MethodPost, "/notification/create", body, models.RolePatient)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddSpecialization_AdminOnly(t *testing.T) {
	r := newTestRouter()
	body := `{"name":"cardiology"}`
	if w := doJSON(t, r, http.MethodPost, "/specialization/add", body, models.RolePatient); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for patient caller, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/specialization/add", `{"name":"  "}`, models.RoleAdmin); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestUpdateDoctorProfile_RejectsEmptyUpdate(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPut, "/doctor/update-profile", `{}`, models.RoleDoctor)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
