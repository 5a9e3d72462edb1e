package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/publicpulse/publicpulse-api/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "pulse_session"

const sessionLocalsKey = "admin_session"

// ErrInvalidSession indicates a missing, malformed, expired or forged token.
var ErrInvalidSession = errors.New("invalid session token")

// Session is the authenticated admin identity carried by a session token.
type Session struct {
	AdminID uint
	Email   string
}

// SignSession mints an HMAC-signed, expiring token for the admin. The token
// replaces server-side session state entirely: possession of a valid token is
// the session.
func SignSession(secret string, ttl time.Duration, adminID uint, email string) (string, time.Time, error) {
	expires := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", adminID),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   expires.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expires, nil
}

// ParseSession validates a token and extracts the admin identity. Expired
// tokens fail validation like any other invalid token.
func ParseSession(secret, tokenString string) (Session, error) {
	if tokenString == "" {
		return Session{}, ErrInvalidSession
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidSession
	}

	session := Session{}
	if sub, err := claims.GetSubject(); err == nil {
		var id uint
		if _, scanErr := fmt.Sscanf(sub, "%d", &id); scanErr == nil {
			session.AdminID = id
		}
	}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}

	if session.AdminID == 0 {
		return Session{}, ErrInvalidSession
	}

	return session, nil
}

// SessionProtected guards admin-only routes. Requests without a valid session
// cookie are rejected before the handler runs.
func SessionProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := ParseSession(secret, c.Cookies(SessionCookie))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
		}

		c.Locals(sessionLocalsKey, session)
		return c.Next()
	}
}

// SessionFromContext returns the session bound to the request, if any.
func SessionFromContext(c *fiber.Ctx) (Session, bool) {
	if value := c.Locals(sessionLocalsKey); value != nil {
		if session, ok := value.(Session); ok {
			return session, true
		}
	}
	return Session{}, false
}
