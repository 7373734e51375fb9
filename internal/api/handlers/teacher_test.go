package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"teacherpin/internal/api/handlers"
	"teacherpin/internal/auth"
	"teacherpin/internal/models"
	"teacherpin/internal/pin"
	"teacherpin/internal/repository"
	"teacherpin/internal/repository/memory"
	"teacherpin/internal/validation"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router    *gin.Engine
	auditRepo repository.AuditLogRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Initialize()

	auditRepo := memory.NewAuditLogRepository()
	svc := auth.NewService(memory.NewTeacherRepository(), pin.SaltedSHA256Hasher{},
		auth.NewRepositorySink(auditRepo), zap.NewNop())

	teacherHandler := handlers.NewTeacherHandler(svc)
	auditHandler := handlers.NewAuditLogHandler(auditRepo)

	r := gin.New()
	r.POST("/teachers", teacherHandler.Register)
	r.GET("/teachers/:userId", teacherHandler.GetTeacher)
	r.POST("/teachers/:userId/pin/validate", teacherHandler.ValidatePin)
	r.POST("/teachers/:userId/pin/reset", teacherHandler.ResetPin)
	r.POST("/teachers/:userId/unlock", teacherHandler.Unlock)
	r.DELETE("/teachers/:userId", teacherHandler.Deactivate)
	r.GET("/teachers/:userId/audit-logs", auditHandler.ListForTeacher)
	r.POST("/pin/validate-format", teacherHandler.ValidatePinFormat)

	return &testServer{router: r, auditRepo: auditRepo}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, name, email, pinCode string) models.Teacher {
	t.Helper()
	w := s.do(t, http.MethodPost, "/teachers", models.RegisterTeacherRequest{Name: name, Email: email, Pin: pinCode})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var teacher models.Teacher
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teacher))
	return teacher
}

func TestTeacherHandler_Register(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Alice", "alice@x.com", "123456")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantErrors []string
	}{
		{
			name:       "Success",
			body:       models.RegisterTeacherRequest{Name: "Bob", Email: "bob@x.com", Pin: "000123"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid PIN",
			body:       models.RegisterTeacherRequest{Name: "Carol", Email: "carol@x.com", Pin: "12a"},
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{pin.ErrMsgLength, pin.ErrMsgNonNumeric},
		},
		{
			name:       "Missing PIN",
			body:       models.RegisterTeacherRequest{Name: "Carol", Email: "carol@x.com"},
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{pin.ErrMsgRequired},
		},
		{
			name:       "Blank Name",
			body:       models.RegisterTeacherRequest{Name: "   ", Email: "dave@x.com", Pin: "123456"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid Email",
			body:       models.RegisterTeacherRequest{Name: "Dave", Email: "not-an-email", Pin: "123456"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Duplicate Email",
			body:       models.RegisterTeacherRequest{Name: "Alice", Email: "ALICE@x.com", Pin: "123456"},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/teachers", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			require.NotContains(t, w.Body.String(), "pin_hash")

			if tt.wantErrors != nil {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, tt.wantErrors, resp.Errors)
			}
		})
	}
}

func TestTeacherHandler_ValidatePin(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.register(t, "Alice", "alice@x.com", "123456")
	path := "/teachers/" + alice.UserID + "/pin/validate"

	validate := func(t *testing.T, path, pinCode string) (int, auth.ValidationResult) {
		w := srv.do(t, http.MethodPost, path, models.ValidatePinRequest{Pin: pinCode})
		var res auth.ValidationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		return w.Code, res
	}

	code, res := validate(t, "/teachers/nobody/pin/validate", "123456")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, auth.StatusNotFound, res.Status)

	code, res = validate(t, path, "12x456")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, auth.StatusInvalidFormat, res.Status)
	require.NotEmpty(t, res.Errors)

	for _, remaining := range []int{2, 1} {
		code, res = validate(t, path, "000000")
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, auth.StatusInvalidPin, res.Status)
		require.Equal(t, remaining, *res.RemainingAttempts)
	}

	code, res = validate(t, path, "000000")
	require.Equal(t, http.StatusOK, code)
	require.True(t, res.Locked)
	require.NotNil(t, res.LockedUntil)

	_, res = validate(t, path, "123456")
	require.Equal(t, auth.StatusLocked, res.Status)

	w := srv.do(t, http.MethodPost, "/teachers/"+alice.UserID+"/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, res = validate(t, path, "123456")
	require.True(t, res.Valid)
	require.Equal(t, auth.StatusSuccess, res.Status)
}

func TestTeacherHandler_Admin(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.register(t, "Alice", "alice@x.com", "123456")
	base := "/teachers/" + alice.UserID

	w := srv.do(t, http.MethodPost, base+"/pin/reset", models.ResetPinRequest{NewPin: "12"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/teachers/nobody/pin/reset", models.ResetPinRequest{NewPin: "654321"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPost, base+"/pin/reset", models.ResetPinRequest{NewPin: "654321"})
	require.Equal(t, http.StatusOK, w.Code)
	var success models.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &success))
	require.True(t, success.Success)

	w = srv.do(t, http.MethodPost, "/teachers/nobody/unlock", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "pin_hash")

	w = srv.do(t, http.MethodGet, base+"/audit-logs?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 2)

	w = srv.do(t, http.MethodGet, base+"/audit-logs?action=PIN+Reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	require.Equal(t, models.AuditActionPinReset, logs[0].Action)

	w = srv.do(t, http.MethodGet, base+"/audit-logs?action=PIN+Reset+Failed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	require.Contains(t, logs[0].Details, "invalid format")

	w = srv.do(t, http.MethodGet, base+"/audit-logs?limit=0", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// History survives deactivation
	w = srv.do(t, http.MethodGet, base+"/audit-logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Equal(t, models.AuditActionTeacherDeactivated, logs[0].Action)
}

func TestTeacherHandler_ValidatePinFormat(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		pin    string
		wantOK bool
	}{
		{name: "Valid", pin: "012345", wantOK: true},
		{name: "Letters", pin: "12a456"},
		{name: "Short", pin: "123"},
		{name: "Empty", pin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/pin/validate-format", models.ValidatePinRequest{Pin: tt.pin})
			require.Equal(t, http.StatusOK, w.Code)

			var res pin.FormatResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			require.Equal(t, tt.wantOK, res.OK)
			if !tt.wantOK {
				require.NotEmpty(t, res.Errors)
			}
		})
	}
}
