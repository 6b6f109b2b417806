package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "todo_session"

// context key for the authenticated user id set by RequireAuth
const ctxUserIDKey = "user_id"

type sessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionManager is the auth gate. It issues, clears and checks the signed
// session cookie; the cookie is the only source of the current user id.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	logger *logrus.Logger
}

func NewSessionManager(secret string, ttl time.Duration, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// Issue transitions the caller from anonymous to authenticated by setting a
// session cookie holding a signed token for userID.
func (m *SessionManager) Issue(c *gin.Context, userID int64) error {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.SetCookie(sessionCookie, token, int(m.ttl.Seconds()), "/", "", false, true)
	return nil
}

// Clear transitions the caller back to anonymous.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// CurrentUser returns the authenticated user id, or false when the request
// carries no valid session.
func (m *SessionManager) CurrentUser(c *gin.Context) (int64, bool) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return 0, false
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		m.logger.WithError(err).Warn("rejected session token")
		return 0, false
	}
	if claims.UserID <= 0 {
		m.logger.Warn("session token without a valid user_id claim")
		return 0, false
	}
	return claims.UserID, true
}

// RequireAuth denies protected operations to anonymous callers: the handler
// never runs, the caller is sent back to the login page.
func (m *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.CurrentUser(c)
		if !ok {
			setFlash(c, "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get(ctxUserIDKey)
	id, _ := v.(int64)
	return id
}
