package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(ctx, idToken)
	tok, _ := args.Get(0).(*auth.Token)
	return tok, args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func serve(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	v := new(mockVerifier)
	v.On("VerifyIDToken", mock.Anything, "good").Return(&auth.Token{UID: "user-1"}, nil)
	v.On("VerifyIDToken", mock.Anything, "expired").Return(nil, errors.New("ID token has expired"))
	r := newRouter(FirebaseAuthMiddleware(v))

	w := serve(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer expired").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic abc").Code)
}

func TestAdminKeyMiddleware(t *testing.T) {
	r := newRouter(AdminKeyMiddleware("s3cret"))
	assert.Equal(t, http.StatusOK, serve(r, "Bearer s3cret").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)

	disabled := newRouter(AdminKeyMiddleware(""))
	assert.Equal(t, http.StatusServiceUnavailable, serve(disabled, "Bearer ").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(2))
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)
}
