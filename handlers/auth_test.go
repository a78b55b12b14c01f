package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	userRepo "flock/database/repository/user"
	"flock/handlers"
	"flock/models"
	"flock/routes"
	"flock/services/auth"
	"flock/services/billing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariMacUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

// In-memory stand-ins for the Mongo repositories and the SMTP notifier.

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	lastPatch bson.M
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.GetByEmailWithProjection(email, nil)
}

func (r *memUserRepo) GetByEmailWithProjection(email string, _ bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.LoginHistory = append([]models.LoginEvent(nil), u.LoginHistory...)
	return &cp, nil
}

func (r *memUserRepo) GetAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return fmt.Errorf("duplicate email %s", user.Email)
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memUserRepo) AppendLoginEvent(email string, event models.LoginEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return fmt.Errorf("append login event for %s: %w", email, userRepo.ErrNotFound)
	}
	u.LoginHistory = append(u.LoginHistory, event)
	return nil
}

func (r *memUserRepo) PatchProfile(email string, fields bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPatch = fields
	u, ok := r.users[email]
	if !ok {
		u = &models.User{Email: email}
		r.users[email] = u
	}
	if bio, ok := fields["bio"].(string); ok {
		u.Bio = bio
	}
	return nil
}

func (r *memUserRepo) SetSubscription(email, subscriptionID string) error {
	return nil
}

type memNotifier struct {
	mu    sync.Mutex
	codes []string
}

func (n *memNotifier) SendOTP(to, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes = append(n.codes, code)
	return nil
}

func (n *memNotifier) SendSubscriptionConfirmation(string, string, int64) error { return nil }

func (n *memNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.codes) == 0 {
		return ""
	}
	return n.codes[len(n.codes)-1]
}

type testApp struct {
	router   *gin.Engine
	repo     *memUserRepo
	notifier *memNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemUserRepo()
	notifier := &memNotifier{}
	authService := &auth.DefaultAuthService{
		Repo:       repo,
		Challenges: auth.NewMemoryChallengeStore(),
		Notifier:   notifier,
	}
	billingService := &billing.StripeBillingService{
		Repo:          repo,
		Notifier:      notifier,
		WebhookSecret: "whsec_test",
	}

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(repo)
	billingHandler := handlers.NewBillingHandler(billingService)

	router := gin.New()
	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		LoginHandler:              authHandler.LoginHandler,
		GoogleLoginHandler:        authHandler.GoogleLoginHandler,
		SendOTPHandler:            authHandler.SendOTPHandler,
		VerifyOTPHandler:          authHandler.VerifyOTPHandler,
		RecordLoginHistoryHandler: authHandler.RecordLoginHistoryHandler,
		GetLoginHistoryHandler:    authHandler.GetLoginHistoryHandler,

		RegisterUserHandler:      userHandler.RegisterUserHandler,
		GetUsersHandler:          userHandler.GetUsersHandler,
		GetLoggedInUserHandler:   userHandler.GetLoggedInUserHandler,
		UpdateUserProfileHandler: userHandler.UpdateUserProfileHandler,

		GetPostsHandler:     func(c *gin.Context) { c.Status(http.StatusOK) },
		GetUserPostsHandler: func(c *gin.Context) { c.Status(http.StatusOK) },
		CreatePostHandler:   func(c *gin.Context) { c.Status(http.StatusOK) },

		CreateCheckoutSessionHandler: billingHandler.CreateCheckoutSessionHandler,
		WebhookHandler:               billingHandler.WebhookHandler,

		CheckAccessHandler: handlers.CheckAccessHandler,
	})

	return &testApp{router: router, repo: repo, notifier: notifier}
}

func (a *testApp) seedUser(t *testing.T, email, password string, history ...models.LoginEvent) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.repo.Create(&models.User{
		ID:           email,
		Email:        email,
		PasswordHash: string(hash),
		LoginHistory: history,
	}))
}

func (a *testApp) do(t *testing.T, method, path, userAgent string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.1:51234"
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLoginUnknownAccount(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/login", chromeWindowsUA,
		gin.H{"email": "nobody@x.com", "password": "whatever"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestLoginFingerprintDriftRequiresOTP(t *testing.T) {
	app := newTestApp(t)
	lastLogin := auth.ExtractFingerprint(chromeWindowsUA, "10.0.0.1")
	app.seedUser(t, "a@x.com", "hunter2", lastLogin.Event(timestamp()))

	w := app.do(t, http.MethodPost, "/login", safariMacUA,
		gin.H{"email": "a@x.com", "password": "hunter2"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["otpRequired"])
	assert.Regexp(t, `^[0-9]{6}$`, app.notifier.lastCode())
}

func TestLoginSameFingerprintIsTrusted(t *testing.T) {
	app := newTestApp(t)
	lastLogin := auth.ExtractFingerprint(chromeWindowsUA, "10.0.0.1")
	app.seedUser(t, "a@x.com", "hunter2", lastLogin.Event(timestamp()))

	w := app.do(t, http.MethodPost, "/login", chromeWindowsUA,
		gin.H{"email": "a@x.com", "password": "hunter2"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	_, challenged := body["otpRequired"]
	assert.False(t, challenged)
	assert.Empty(t, app.notifier.lastCode())
}

func TestChallengedLoginFullFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "hunter2",
		auth.ExtractFingerprint(chromeWindowsUA, "10.0.0.1").Event(timestamp()))

	// Step 1: drifted login triggers the challenge.
	w := app.do(t, http.MethodPost, "/login", safariMacUA,
		gin.H{"email": "a@x.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	code := app.notifier.lastCode()
	require.NotEmpty(t, code)

	// Wrong code is rejected and may be retried.
	w = app.do(t, http.MethodPost, "/verify-otp", safariMacUA,
		gin.H{"email": "a@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP", decode(t, w)["error"])

	// Step 2: the correct code commits a history entry from the current request.
	w = app.do(t, http.MethodPost, "/verify-otp", safariMacUA,
		gin.H{"email": "a@x.com", "otp": code})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	var history []models.LoginEvent
	w = app.do(t, http.MethodGet, "/login-history?email=a@x.com", safariMacUA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "Safari", history[1].Browser)

	// Replay of a consumed code fails.
	w = app.do(t, http.MethodPost, "/verify-otp", safariMacUA,
		gin.H{"email": "a@x.com", "otp": code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleLoginProvisionsAccount(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/google-login", chromeWindowsUA,
		gin.H{"email": "new@x.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	_, challenged := body["otpRequired"]
	assert.False(t, challenged)
	assert.Empty(t, app.notifier.lastCode())

	created, err := app.repo.GetByEmail("new@x.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, created.LoginHistory)
}

func TestRecordAndReadLoginHistory(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "hunter2")

	w := app.do(t, http.MethodPost, "/login-history", chromeWindowsUA,
		gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "result")

	var history []models.LoginEvent
	w = app.do(t, http.MethodGet, "/login-history?email=a@x.com", chromeWindowsUA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Chrome", history[0].Browser)
	assert.Equal(t, "Windows", history[0].Platform)
	assert.Equal(t, "10.0.0.1", history[0].IP)
}

func TestLoginHistoryUnknownAccount(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/login-history?email=nobody@x.com", chromeWindowsUA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestRecordLoginHistoryUnknownAccount(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/login-history", chromeWindowsUA,
		gin.H{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/register", chromeWindowsUA,
		gin.H{"email": "a@x.com", "password": "hunter2", "name": "Ada"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/register", chromeWindowsUA,
		gin.H{"email": "a@x.com", "password": "other", "name": "Eve"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientIPFromForwardedHeader(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "hunter2")

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(gin.H{"email": "a@x.com"}))
	req := httptest.NewRequest(http.MethodPost, "/login-history", &buf)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", chromeWindowsUA)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	user, err := app.repo.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.Len(t, user.LoginHistory, 1)
	assert.Equal(t, "203.0.113.7", user.LoginHistory[0].IP)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		bytes.NewBufferString(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func timestamp() time.Time {
	return time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
}
