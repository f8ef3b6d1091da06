package session

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artemv/authcore/api/http/presenter"
)

// Locals keys set by the middleware for downstream handlers.
const (
	LocalsUserID    = "userId"
	LocalsUserName  = "userName"
	LocalsSessionID = "sessionId"
)

// NewRequireSession returns a Fiber middleware that loads the session
// referenced by the cookie and rejects the request with 401 when the
// cookie is missing, unknown or expired.
// On success sets userId, userName and sessionId into c.Locals.
func NewRequireSession(manager Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if id == "" {
			return presenter.Error(c, http.StatusUnauthorized, "unauthorized, please login")
		}
		s, err := manager.Load(c.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return presenter.Error(c, http.StatusUnauthorized, "unauthorized, please login")
			}
			return presenter.Error(c, http.StatusInternalServerError, "failed to load session")
		}
		c.Locals(LocalsUserID, s.UserID)
		c.Locals(LocalsUserName, s.UserName)
		c.Locals(LocalsSessionID, s.ID)
		return c.Next()
	}
}
