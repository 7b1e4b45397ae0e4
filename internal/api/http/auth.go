package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/observatory/internal/session"
)

const sessionKey = "session"

// sessionFrom returns the session attached by the session middleware, if any.
func sessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}

// optionalSession attaches the caller's session when a valid bearer token
// is present. An invalid token is rejected rather than ignored.
func (h *handler) optionalSession(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Next()
	}
	sess, err := h.sessions.Get(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
	}
	c.Locals(sessionKey, &sess)
	return c.Next()
}

// requireSession rejects requests without a valid bearer token.
func (h *handler) requireSession(c *fiber.Ctx) error {
	if bearerToken(c) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	return h.optionalSession(c)
}

func (h *handler) login(c *fiber.Ctx) error {
	var creds session.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sess, err := h.sessions.Login(creds)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "login failed")
	}

	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *handler) logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(sessionFrom(c).Token); err != nil {
		return toHTTPError(err, "", "logout failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handler) getSettings(c *fiber.Ctx) error {
	return c.JSON(sessionFrom(c))
}

func (h *handler) putSettings(c *fiber.Ctx) error {
	var in session.Settings
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sess, err := h.sessions.Update(sessionFrom(c).Token, in)
	if err != nil {
		return toHTTPError(err, "", "failed to update settings")
	}
	return c.JSON(sess)
}
