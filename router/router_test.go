package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"testcase-generator/config"
	"testcase-generator/generator"
	"testcase-generator/infra"
	"testcase-generator/repositories"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const loginResponse = `{"test_cases": [
	{"title": "Valid login", "description": "d", "type": "functional", "steps": ["Open login page", "Submit valid credentials"], "expected_result": "Dashboard shown"},
	{"title": "Remember me", "description": "d", "type": "functional", "steps": ["Tick remember me"], "expected_result": "Session kept"},
	{"title": "Wrong password", "description": "d", "type": "negative", "steps": ["Submit wrong password"], "expected_result": "Error shown"},
	{"title": "Unknown email", "description": "d", "type": "negative", "steps": ["Submit unknown email"], "expected_result": "Error shown"},
	{"title": "Long password", "description": "d", "type": "boundary", "steps": ["Submit 128 characters"], "expected_result": "Accepted"},
	{"title": "Pasted email", "description": "d", "type": "exploratory", "steps": ["Paste email with spaces"], "expected_result": "Trimmed"}
]}`

type stubClient struct {
	content string
	err     error
	calls   int
}

func (s *stubClient) Complete(ctx context.Context, req generator.CompletionRequest) (string, error) {
	s.calls++
	return s.content, s.err
}

type testServer struct {
	engine *gin.Engine
	client *stubClient
}

func newTestServer(t *testing.T, rateLimit config.RateLimit) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.SetupSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	genCfg := config.Generation{Temperature: 0.7, MaxTokens: 2000}
	client := &stubClient{content: loginResponse}

	projectRepository := repositories.NewProjectRepository(db)
	authService := services.NewAuthService(
		repositories.NewAuthRepository(db),
		repositories.NewTokenRepository(db),
		config.Auth{Secret: "test-secret", AccessTTL: time.Hour},
	)

	engine := NewRouter(Deps{
		DB:              db,
		Logger:          zap.NewNop(),
		Server:          config.Server{CORSOrigins: []string{"http://localhost:3000"}},
		RateLimit:       rateLimit,
		AuthService:     authService,
		ProjectService:  services.NewProjectService(projectRepository),
		TestCaseService: services.NewTestCaseService(projectRepository, repositories.NewTestCaseRepository(db), generator.New(client, genCfg), zap.NewNop()),
	})
	return &testServer{engine: engine, client: client}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signupAndLogin(t *testing.T, name string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/signup", "", gin.H{
		"email":    name + "@example.com",
		"username": name,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	form := url.Values{"username": {name + "@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &token)
	require.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func (s *testServer) createProject(t *testing.T, token, name string) uint {
	t.Helper()

	w := s.do(t, http.MethodPost, "/projects", token, gin.H{"name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var project struct {
		ID uint `json:"id"`
	}
	decode(t, w, &project)
	return project.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Detail string `json:"detail"`
	}
	decode(t, w, &body)
	return body.Detail
}

func generateBody(feature string) gin.H {
	return gin.H{"feature_name": feature, "requirement_text": "User can log in with email and password"}
}

func TestGenerateWorkflow(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)
	listPath := fmt.Sprintf("/projects/%d/features/Login/test-cases", projectID)

	w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var generated struct {
		Message        string `json:"message"`
		FeatureName    string `json:"feature_name"`
		TestCasesCount int    `json:"test_cases_count"`
		TestCases      []struct {
			ID    uint     `json:"id"`
			Type  string   `json:"type"`
			Steps []string `json:"steps"`
		} `json:"test_cases"`
	}
	decode(t, w, &generated)
	assert.Equal(t, "Login", generated.FeatureName)
	assert.Equal(t, 6, generated.TestCasesCount)
	require.Len(t, generated.TestCases, 6)
	assert.Equal(t, []string{"Open login page", "Submit valid credentials"}, generated.TestCases[0].Steps)

	// 同じフィーチャーの再生成は 400 で、既存の行はそのまま
	w = s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "Login")
	assert.Equal(t, 1, s.client.calls)

	w = s.do(t, http.MethodGet, listPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []json.RawMessage
	decode(t, w, &listed)
	assert.Len(t, listed, 6)

	// 他人からは存在しないように見える
	other := s.signupAndLogin(t, "bob")
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/projects/%d", projectID), other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, listPath, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, generatePath, other, generateBody("Signup")).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, fmt.Sprintf("/projects/%d/features/Login", projectID), other, nil).Code)
	assert.Equal(t, 1, s.client.calls)
}

func TestGetProjectGroupsFeatures(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, generatePath, token, generateBody("Checkout")).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, generatePath, token, generateBody("Login")).Code)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/projects/%d", projectID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var project struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Features []struct {
			FeatureName     string            `json:"feature_name"`
			RequirementText string            `json:"requirement_text"`
			TestCases       []json.RawMessage `json:"test_cases"`
		} `json:"features"`
	}
	decode(t, w, &project)
	assert.Equal(t, projectID, project.ID)
	assert.Equal(t, "Shop", project.Name)
	require.Len(t, project.Features, 2)
	assert.Equal(t, "Checkout", project.Features[0].FeatureName)
	assert.Equal(t, "Login", project.Features[1].FeatureName)
	assert.Equal(t, "User can log in with email and password", project.Features[1].RequirementText)
	assert.Len(t, project.Features[1].TestCases, 6)
}

func TestDeleteFeatureThenRegenerate(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)
	deletePath := fmt.Sprintf("/projects/%d/features/Login", projectID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, generatePath, token, generateBody("Login")).Code)

	w := s.do(t, http.MethodDelete, deletePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Message      string `json:"message"`
		DeletedCount int64  `json:"deleted_count"`
	}
	decode(t, w, &deleted)
	assert.Equal(t, int64(6), deleted.DeletedCount)
	assert.Equal(t, "Deleted 6 test cases for feature 'Login'", deleted.Message)

	w = s.do(t, http.MethodDelete, deletePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &deleted)
	assert.Zero(t, deleted.DeletedCount)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, generatePath, token, generateBody("Login")).Code)
}

func TestFeatureNameWithSpaces(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")

	w := s.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/generate-test-cases", projectID), token, generateBody("Password reset"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/features/Password%%20reset/test-cases", projectID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []json.RawMessage
	decode(t, w, &listed)
	assert.Len(t, listed, 6)
}

func TestGenerateErrors(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)
	listPath := fmt.Sprintf("/projects/%d/features/Login/test-cases", projectID)

	t.Run("unparsable model output", func(t *testing.T) {
		s.client.content = "Sure! Here are your test cases:"
		w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.True(t, strings.HasPrefix(detail(t, w), "Error generating test cases: "))
	})

	t.Run("missing test_cases key", func(t *testing.T) {
		s.client.content = `{"cases": []}`
		w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, detail(t, w), "test_cases")
	})

	t.Run("item missing a field", func(t *testing.T) {
		s.client.content = `{"test_cases": [{"title": "t", "description": "d", "type": "functional", "steps": ["s"]}]}`
		w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, detail(t, w), "expected_result")
	})

	t.Run("upstream failure", func(t *testing.T) {
		s.client.content = ""
		s.client.err = fmt.Errorf("connection reset")
		w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, detail(t, w), "connection reset")
		s.client.err = nil
	})

	w := s.do(t, http.MethodGet, listPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	t.Run("blank fields", func(t *testing.T) {
		w := s.do(t, http.MethodPost, generatePath, token, gin.H{"feature_name": "   ", "requirement_text": "x"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = s.do(t, http.MethodPost, generatePath, token, gin.H{"feature_name": "Login"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid project id", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/projects/abc/generate-test-cases", token, generateBody("Login"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGenerateAcceptsEmptyValues(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)

	s.client.content = `{"test_cases": [{"title": "t", "description": "", "type": "functional", "steps": ["a"], "expected_result": "r"}]}`
	w := s.do(t, http.MethodPost, generatePath, token, generateBody("Login"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.client.content = `{"test_cases": [{"title": "t", "description": "d", "type": "negative", "steps": [], "expected_result": "r"}]}`
	w = s.do(t, http.MethodPost, generatePath, token, generateBody("Signup"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var generated struct {
		TestCasesCount int `json:"test_cases_count"`
		TestCases      []struct {
			Steps []string `json:"steps"`
		} `json:"test_cases"`
	}
	decode(t, w, &generated)
	assert.Equal(t, 1, generated.TestCasesCount)
	require.Len(t, generated.TestCases, 1)
	assert.NotNil(t, generated.TestCases[0].Steps)
	assert.Empty(t, generated.TestCases[0].Steps)
}

func TestGenerateRateLimit(t *testing.T) {
	s := newTestServer(t, config.RateLimit{PerMinute: 60, Burst: 1})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	generatePath := fmt.Sprintf("/projects/%d/generate-test-cases", projectID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, generatePath, token, generateBody("Login")).Code)

	w := s.do(t, http.MethodPost, generatePath, token, generateBody("Signup"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, s.client.calls)

	// 別ユーザーのバケットは独立している
	other := s.signupAndLogin(t, "bob")
	otherProject := s.createProject(t, other, "Blog")
	w = s.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/generate-test-cases", otherProject), other, generateBody("Login"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectCRUD(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")

	firstID := s.createProject(t, token, "Shop")
	s.createProject(t, token, "Blog")

	w := s.do(t, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var projects []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &projects)
	require.Len(t, projects, 2)
	assert.Equal(t, "Shop", projects[0].Name)

	w = s.do(t, http.MethodPut, fmt.Sprintf("/projects/%d", firstID), token, gin.H{"description": "online store"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	decode(t, w, &updated)
	assert.Equal(t, "Shop", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "online store", *updated.Description)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/projects", token, gin.H{}).Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/projects/%d", firstID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/projects/%d", firstID), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, fmt.Sprintf("/projects/%d", firstID), token, nil).Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")

	w := s.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]interface{}
	decode(t, w, &me)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotContains(t, me, "hashed_password")

	w = s.do(t, http.MethodPost, "/signup", "", gin.H{"email": "alice@example.com", "username": "other", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", detail(t, w))

	w = s.do(t, http.MethodPost, "/token", "", gin.H{"username": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = s.do(t, http.MethodPost, "/token", "", gin.H{"username": "alice@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/logout", token, nil).Code)
	w = s.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})

	for _, path := range []string{"/projects", "/projects/1", "/projects/1/features/Login/test-cases", "/users/me"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := s.do(t, http.MethodGet, "/projects", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteMe(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})
	token := s.signupAndLogin(t, "alice")
	projectID := s.createProject(t, token, "Shop")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/generate-test-cases", projectID), token, generateBody("Login")).Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/users/me", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/projects", token, nil).Code)
}

func TestHealthAndRoot(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})

	w := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "is running")

	w = s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	decode(t, w, &health)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "ok", health["db"])
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t, config.RateLimit{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	w = s.do(t, http.MethodGet, "/", "", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	assert.NoError(t, err)

	req = httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
