package serverutils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"askgov-sg/internal/constant"
	"askgov-sg/internal/pkg/logger"
	"askgov-sg/internal/repository/contract"
	"askgov-sg/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "askgov_session"
	sessionLocalsKey  = "session"
	sessionIssuer     = "askgov-sg"
)

// SessionIssuer signs the session id into an HS256 JWT stored in the session
// cookie, so a client cannot guess or forge another browser's session id.
type SessionIssuer struct {
	key    []byte
	ttl    time.Duration
	secure bool
}

// NewSessionIssuer uses signingKey, or a random per-process key when it is
// empty (sessions then do not survive a restart).
func NewSessionIssuer(signingKey string, ttl time.Duration, secure bool) (*SessionIssuer, error) {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session signing key: %w", err)
		}
	}
	return &SessionIssuer{key: key, ttl: ttl, secure: secure}, nil
}

func (i *SessionIssuer) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Parse returns the session id carried by a valid, unexpired token.
func (i *SessionIssuer) Parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// SessionMiddleware loads the caller's session, creating one (and setting the
// cookie) when the cookie is missing, invalid, or points at an expired session.
func SessionMiddleware(repo contract.SessionRepository, issuer *SessionIssuer, log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var session *store.Session
		if tokenStr := c.Cookies(SessionCookieName); tokenStr != "" {
			sessionID, err := issuer.Parse(tokenStr)
			if err != nil {
				log.Debug("SESSION", "Discarding invalid session cookie", map[string]interface{}{"error": err.Error()})
			} else {
				s, found, err := repo.Get(ctx, sessionID)
				if err != nil {
					return err
				}
				if found {
					session = s
				}
			}
		}

		if session == nil {
			session = store.NewSession(uuid.NewString())
			if err := repo.Save(ctx, session); err != nil {
				return err
			}
			tokenStr, err := issuer.Sign(session.ID)
			if err != nil {
				return err
			}
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    tokenStr,
				Path:     "/",
				Expires:  time.Now().Add(issuer.ttl),
				HTTPOnly: true,
				Secure:   issuer.secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			log.Debug("SESSION", "Session created", map[string]interface{}{"session_id": session.ID})
		}

		c.Locals(sessionLocalsKey, session)
		return c.Next()
	}
}

// CurrentSession returns the session loaded by SessionMiddleware.
func CurrentSession(c *fiber.Ctx) *store.Session {
	s, _ := c.Locals(sessionLocalsKey).(*store.Session)
	return s
}

// RequireGate rejects API calls from sessions that have not passed the
// access gate.
func RequireGate(c *fiber.Ctx) error {
	s := CurrentSession(c)
	if s == nil || !s.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, constant.MsgPasswordRequired))
	}
	return c.Next()
}
