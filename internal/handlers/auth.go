// Package handlers contains HTTP request handlers for the library service.
package handlers

import (
	"net/http"
	"time"

	"github.com/akila4352/library-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles account and OTP HTTP requests.
type AuthHandler struct {
	authService  service.AuthService
	otpService   service.OTPService
	cookieHelper *CookieHelper
	echoOTP      bool
}

// NewAuthHandler creates a new AuthHandler instance. When echoOTP is set the
// send-otp response includes the generated code.
func NewAuthHandler(authService service.AuthService, otpService service.OTPService, cookieHelper *CookieHelper, echoOTP bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		otpService:   otpService,
		cookieHelper: cookieHelper,
		echoOTP:      echoOTP,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// SendOTPRequest represents the send-otp request payload.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTPResponse is returned after a code was mailed.
type SendOTPResponse struct {
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// VerifyOTPRequest represents the verify-otp request payload.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Register godoc
// @Summary Register user
// @Description Create a user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Account details"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req); err != nil {
		respondServiceError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "user registered successfully"})
}

// Login godoc
// @Summary Login
// @Description Authenticate a user or an admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, req.UserType)
	if err != nil {
		respondServiceError(c, err, "login failed")
		return
	}

	h.cookieHelper.SetAccessToken(c, response.AccessToken, time.Duration(response.ExpiresIn)*time.Second)
	c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary Logout
// @Description Clear the access token cookie
// @Tags auth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookieHelper.ClearAccessToken(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// SendOTP godoc
// @Summary Send OTP
// @Description Mail a six digit one-time code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Recipient"
// @Success 200 {object} SendOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.otpService.Send(c.Request.Context(), req.Email)
	if err != nil {
		respondServiceError(c, err, "failed to send OTP")
		return
	}

	response := SendOTPResponse{Message: "OTP sent successfully"}
	if h.echoOTP {
		response.OTP = code
	}
	c.JSON(http.StatusOK, response)
}

// VerifyOTP godoc
// @Summary Verify OTP
// @Description Consume a previously sent code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Code"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.otpService.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondServiceError(c, err, "failed to verify OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
