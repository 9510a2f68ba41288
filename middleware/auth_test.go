package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/internal/auth"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthRouter(v TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/private", AuthMiddleware(v), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(*mockValidator)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing header",
			header:     "",
			setupMock:  func(*mockValidator) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "missing_token",
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			setupMock:  func(*mockValidator) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "missing_token",
		},
		{
			name:   "expired token",
			header: "Bearer old",
			setupMock: func(m *mockValidator) {
				m.On("Validate", "old").Return(int64(0), auth.ErrTokenExpired)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "token_expired",
		},
		{
			name:   "forged token",
			header: "Bearer forged",
			setupMock: func(m *mockValidator) {
				m.On("Validate", "forged").Return(int64(0), auth.ErrTokenInvalid)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "token_invalid",
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(m *mockValidator) {
				m.On("Validate", "good").Return(int64(42), nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(mockValidator)
			tt.setupMock(v)
			r := newAuthRouter(v)

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var body types.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Equal(t, "AUTHENTICATION_ERROR", body.Type)
			} else {
				assert.JSONEq(t, `{"userId":42}`, w.Body.String())
			}
			v.AssertExpectations(t)
		})
	}
}

func TestAuthMiddlewareWithRealTokens(t *testing.T) {
	tm, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	token, _, err := tm.Issue(7)
	require.NoError(t, err)

	r := newAuthRouter(tm)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":7}`, w.Body.String())
}
