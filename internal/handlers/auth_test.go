package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockAuthService struct {
	registerFunc    func(ctx context.Context, req service.RegisterRequest) (*models.User, error)
	loginFunc       func(ctx context.Context, email, password, userType string) (*service.LoginResponse, error)
	createAdminFunc func(ctx context.Context, firstName, lastName, email, password string) (*models.Admin, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, email, password, userType string) (*service.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password, userType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*models.Admin, error) {
	if m.createAdminFunc != nil {
		return m.createAdminFunc(ctx, firstName, lastName, email, password)
	}
	return nil, errors.New("not implemented")
}

type mockOTPService struct {
	sendFunc   func(ctx context.Context, email string) (string, error)
	verifyFunc func(ctx context.Context, email, code string) error
}

func (m *mockOTPService) Send(ctx context.Context, email string) (string, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, email)
	}
	return "", errors.New("not implemented")
}

func (m *mockOTPService) Verify(ctx context.Context, email, code string) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, email, code)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestAuthHandler(authService *mockAuthService, otpService *mockOTPService, echoOTP bool) *AuthHandler {
	return NewAuthHandler(authService, otpService, NewCookieHelper(CookieConfig{}), echoOTP)
}

func createTestContext(method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = json.Marshal(b)
	}

	c.Request = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body.Message
}

// =============================================================================
// Register Handler Tests
// =============================================================================

func TestRegister_Success(t *testing.T) {
	var got service.RegisterRequest
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
			got = req
			return &models.User{ID: 1}, nil
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/register", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"email":     "ada@example.com",
		"password":  "secret",
		"city":      "London",
	})

	handler.Register(c)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if msg := decodeMessage(t, w); msg != "user registered successfully" {
		t.Errorf("message = %q", msg)
	}
	if got.FirstName != "Ada" || got.City != "London" {
		t.Errorf("request not bound: %+v", got)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
			return nil, &service.ValidationError{Fields: []string{"username", "email"}}
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/register", map[string]string{"firstName": "Ada"})

	handler.Register(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if msg := decodeMessage(t, w); msg != "missing required fields: username, email" {
		t.Errorf("message = %q", msg)
	}
}

func TestRegister_StorageError(t *testing.T) {
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
			return nil, fmt.Errorf("%w: duplicate key", service.ErrStorage)
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/register", map[string]string{"firstName": "Ada"})

	handler.Register(c)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if msg := decodeMessage(t, w); msg != "failed to register user" {
		t.Errorf("internal error leaked: %q", msg)
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	handler := setupTestAuthHandler(&mockAuthService{}, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/register", "invalid json")

	handler.Register(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

// =============================================================================
// Login Handler Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	mockService := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password, userType string) (*service.LoginResponse, error) {
			if userType != "admin" {
				t.Errorf("userType = %s, want admin", userType)
			}
			return &service.LoginResponse{
				UserID:      1,
				FirstName:   "Ada",
				UserType:    "admin",
				AccessToken: "access_token_123",
				ExpiresIn:   900,
			}, nil
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "secret",
		UserType: "admin",
	})

	handler.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response["firstName"] != "Ada" || response["userType"] != "admin" {
		t.Errorf("response = %v", response)
	}
	if _, ok := response["UserID"]; ok {
		t.Error("user id should not be serialized")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != AccessTokenCookie || cookies[0].Value != "access_token_123" {
		t.Errorf("cookies = %v", cookies)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockService := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password, userType string) (*service.LoginResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
		UserType: "user",
	})

	handler.Login(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if msg := decodeMessage(t, w); msg != "invalid email or password" {
		t.Errorf("message = %q", msg)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("no cookie expected on failed login")
	}
}

func TestLogin_ValidationError(t *testing.T) {
	mockService := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password, userType string) (*service.LoginResponse, error) {
			return nil, &service.ValidationError{Fields: []string{"userType"}}
		},
	}

	handler := setupTestAuthHandler(mockService, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/login", map[string]string{"email": "ada@example.com"})

	handler.Login(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	handler := setupTestAuthHandler(&mockAuthService{}, &mockOTPService{}, false)
	w, c := createTestContext("POST", "/api/auth/logout", nil)

	handler.Logout(c)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %v, want one expired access cookie", cookies)
	}
}

// =============================================================================
// OTP Handler Tests
// =============================================================================

func TestSendOTP_DoesNotEchoCodeByDefault(t *testing.T) {
	otpService := &mockOTPService{
		sendFunc: func(ctx context.Context, email string) (string, error) {
			return "123456", nil
		},
	}

	handler := setupTestAuthHandler(&mockAuthService{}, otpService, false)
	w, c := createTestContext("POST", "/api/auth/send-otp", SendOTPRequest{Email: "ada@example.com"})

	handler.SendOTP(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var response SendOTPResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Message != "OTP sent successfully" {
		t.Errorf("message = %q", response.Message)
	}
	if response.OTP != "" {
		t.Errorf("otp should not be echoed, got %q", response.OTP)
	}
}

func TestSendOTP_EchoesCodeWhenEnabled(t *testing.T) {
	otpService := &mockOTPService{
		sendFunc: func(ctx context.Context, email string) (string, error) {
			return "654321", nil
		},
	}

	handler := setupTestAuthHandler(&mockAuthService{}, otpService, true)
	w, c := createTestContext("POST", "/api/auth/send-otp", SendOTPRequest{Email: "ada@example.com"})

	handler.SendOTP(c)

	var response SendOTPResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.OTP != "654321" {
		t.Errorf("otp = %q, want 654321", response.OTP)
	}
}

func TestSendOTP_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing email", &service.ValidationError{Fields: []string{"email"}}, http.StatusBadRequest},
		{"mail delivery failure", fmt.Errorf("%w: smtp down", service.ErrTransport), http.StatusInternalServerError},
		{"redis failure", fmt.Errorf("%w: connection refused", service.ErrStorage), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpService := &mockOTPService{
				sendFunc: func(ctx context.Context, email string) (string, error) {
					return "", tt.err
				},
			}

			handler := setupTestAuthHandler(&mockAuthService{}, otpService, true)
			w, c := createTestContext("POST", "/api/auth/send-otp", SendOTPRequest{})

			handler.SendOTP(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestVerifyOTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"valid code", nil, http.StatusOK},
		{"wrong code", service.ErrInvalidOTP, http.StatusUnauthorized},
		{"missing code", &service.ValidationError{Fields: []string{"otp"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpService := &mockOTPService{
				verifyFunc: func(ctx context.Context, email, code string) error {
					return tt.err
				},
			}

			handler := setupTestAuthHandler(&mockAuthService{}, otpService, false)
			w, c := createTestContext("POST", "/api/auth/verify-otp", VerifyOTPRequest{Email: "ada@example.com", OTP: "123456"})

			handler.VerifyOTP(c)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
