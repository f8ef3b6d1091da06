package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artemv/authcore/api/http/presenter"
	"github.com/artemv/authcore/pkg/auth"
	"github.com/artemv/authcore/pkg/session"
)

type AuthHandler struct {
	useCase      auth.AuthUseCase
	sessions     session.Manager
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
}

func NewAuthHandler(useCase auth.AuthUseCase, sessions session.Manager, cookieName string, cookieSecure bool, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	return &AuthHandler{
		useCase:      useCase,
		sessions:     sessions,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} handlers.userResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "name, email and password are required")
	}

	user, err := h.useCase.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			return presenter.ValidationFailed(c, vErr.Fields)
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusConflict, "email already registered")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, userResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login and issues the session cookie.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} handlers.userResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	user, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// One body for unknown email and wrong password alike.
			return presenter.Error(c, http.StatusUnauthorized, "invalid email or password")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	sessionID, err := h.sessions.Create(c.Context(), user.ID, user.Name)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to create session")
	}
	h.setSessionCookie(c, sessionID)

	return presenter.JSON(c, http.StatusOK, userResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

// Logout destroys the current session, if any. Idempotent: responds 200
// whether or not a session existed.
// @Summary Logout
// @Tags    auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if id := c.Cookies(h.cookieName); id != "" {
		if err := h.sessions.Destroy(c.Context(), id); err != nil && !errors.Is(err, session.ErrNotFound) {
			return presenter.Error(c, http.StatusInternalServerError, "failed to logout")
		}
	}
	h.clearSessionCookie(c)
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "logout successful"})
}

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile returns the authenticated user's account. Requires the session
// middleware; the session may outlive the user record, hence the 404 path.
// @Summary Get profile
// @Tags    auth
// @Produce json
// @Success 200 {object} handlers.profileResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals(session.LocalsUserID).(uuid.UUID)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized, please login")
	}

	user, err := h.useCase.Profile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load profile")
	}

	return presenter.JSON(c, http.StatusOK, profileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
