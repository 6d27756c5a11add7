package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/config"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/utils"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubMailer) SendPasswordReset(to, name, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

var (
	testHashOnce sync.Once
	testHash     string
)

// bcrypt at the production cost is slow; hash the fixture password once.
func fixtureHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		hash, err := utils.HashPassword("Doctor!1pw")
		require.NoError(t, err)
		testHash = hash
	})
	return testHash
}

func userDoc(t *testing.T, role, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "fullName", Value: "Saleem"},
		{Key: "email", Value: "saleem@example.com"},
		{Key: "password", Value: fixtureHash(t)},
		{Key: "phone", Value: "03001234567"},
		{Key: "role", Value: role},
		{Key: "status", Value: status},
	}
}

func postLogin(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("handler-test-secret")
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("verified doctor logs in", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "hair_follicle_db.users", mtest.FirstBatch,
			userDoc(mt.T, models.RoleDoctor, models.StatusVerified)))

		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.POST("/api/auth/login", h.Login)

		w := postLogin(r, "saleem@example.com", "Doctor!1pw")
		require.Equal(mt.T, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Role     string `json:"role"`
			FullName string `json:"fullName"`
			Token    string `json:"token"`
		}
		require.NoError(mt.T, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(mt.T, models.RoleDoctor, resp.Role)
		assert.Equal(mt.T, "Saleem", resp.FullName)
		assert.NotEmpty(mt.T, resp.Token)
	})

	mt.Run("pending doctor is forbidden", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "hair_follicle_db.users", mtest.FirstBatch,
			userDoc(mt.T, models.RoleDoctor, models.StatusPending)))

		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.POST("/api/auth/login", h.Login)

		w := postLogin(r, "saleem@example.com", "Doctor!1pw")
		assert.Equal(mt.T, http.StatusForbidden, w.Code)
		assert.Contains(mt.T, w.Body.String(), "pending admin verification")
	})

	mt.Run("wrong password is unauthorized", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "hair_follicle_db.users", mtest.FirstBatch,
			userDoc(mt.T, models.RoleDoctor, models.StatusVerified)))

		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.POST("/api/auth/login", h.Login)

		w := postLogin(r, "saleem@example.com", "nope")
		assert.Equal(mt.T, http.StatusUnauthorized, w.Code)
	})

	mt.Run("unknown account is unauthorized", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "hair_follicle_db.users", mtest.FirstBatch))

		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.POST("/api/auth/login", h.Login)

		w := postLogin(r, "ghost@example.com", "whatever")
		assert.Equal(mt.T, http.StatusUnauthorized, w.Code)
	})
}

func TestForgotPasswordIsNeutralForUnknownEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("handler-test-secret")
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown email gets the neutral body", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "hair_follicle_db.users", mtest.FirstBatch))

		mailer := &stubMailer{}
		h := NewHandler(mt.DB, mailer, nil, config.Config{})
		r := gin.New()
		r.POST("/api/auth/forgot-password", h.ForgotPassword)

		body, _ := json.Marshal(gin.H{"email": "ghost@example.com"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(mt.T, http.StatusOK, w.Code)
		assert.Contains(mt.T, w.Body.String(), neutralResetMessage)
	})
}

func TestVerifyDoctor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets status", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.PUT("/api/admin/verify-doctor/:id", h.VerifyDoctor)

		body, _ := json.Marshal(gin.H{"status": models.StatusVerified})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/admin/verify-doctor/"+primitive.NewObjectID().Hex(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(mt.T, http.StatusOK, w.Code, w.Body.String())
	})

	mt.Run("rejects unknown status", func(mt *mtest.T) {
		h := NewHandler(mt.DB, &stubMailer{}, nil, config.Config{})
		r := gin.New()
		r.PUT("/api/admin/verify-doctor/:id", h.VerifyDoctor)

		body, _ := json.Marshal(gin.H{"status": "Banned"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/admin/verify-doctor/"+primitive.NewObjectID().Hex(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(mt.T, http.StatusBadRequest, w.Code)
	})
}
