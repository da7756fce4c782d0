package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
	ConfigureValidator()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not logged in", apperrors.NewCustomError(apperrors.ErrNotAuthenticated, "Not logged in"), http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not logged in"},
		{"bad credentials", apperrors.NewUnauthorizedError("Not approved yet"), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Not approved yet"},
		{"ownership", apperrors.NewForbiddenError("Unauthorized access"), http.StatusUnauthorized, dto.ErrorCodeForbidden, "Unauthorized access"},
		{"not found", apperrors.NewResourceNotFoundError("Event not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
		{"email taken", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already exists"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{"conflict", apperrors.NewConflictError("Already registered"), http.StatusBadRequest, dto.ErrorCodeConflict, "Already registered"},
		{"validation", apperrors.NewValidationError("Event name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Event name is required"},
		{"bad request", apperrors.NewBadRequestError("Password already set"), http.StatusBadRequest, dto.ErrorCodeBadRequest, "Password already set"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status %d, want %d", w.Code, tt.status)
			}
			if !c.IsAborted() {
				t.Error("context not aborted")
			}
			resp := decodeError(t, w)
			if resp.Success || resp.Error == nil {
				t.Fatalf("unexpected envelope %+v", resp)
			}
			if resp.Error.Code != tt.code || resp.Error.Message != tt.message {
				t.Errorf("got %s %q, want %s %q", resp.Error.Code, resp.Error.Message, tt.code, tt.message)
			}
		})
	}
}

func TestHandleBindErrorUsesJSONFieldNames(t *testing.T) {
	type body struct {
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var req body
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		payload string
		message string
		field   string
	}{
		{"missing", `{}`, "newPassword is required", "newPassword"},
		{"too short", `{"newPassword":"abc"}`, "newPassword must be at least 6 characters", "newPassword"},
		{"malformed", `{"newPassword":`, "Invalid request format", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status %d", w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error.Message != tt.message || resp.Error.Field != tt.field {
				t.Errorf("got %q/%q, want %q/%q", resp.Error.Message, resp.Error.Field, tt.message, tt.field)
			}
		})
	}
}

func TestMetricsRecordsMatchedRoute(t *testing.T) {
	metrics := NewMetrics()
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop(), "/metrics"), metrics.Middleware())
	router.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", metrics.Handler())

	for _, path := range []string{"/events/1", "/events/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status %d", w.Code)
	}
	body := w.Body.String()
	for _, line := range []string{
		`eventportal_http_requests_total{method="GET",route="/events/:id",status="200"} 2`,
		`eventportal_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("metrics output missing %q", line)
		}
	}
}
