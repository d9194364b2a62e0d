package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BugSlayer555/ZyeroLead/internal/config"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
)

const (
	ContextAdminSession = "adminSession"

	// AdminCookie carries the admin token for the server-rendered console.
	AdminCookie = "zyerolead_admin"

	adminSubject = "admin"
)

var errInvalidToken = errors.New("invalid admin token")

// IssueAdminToken signs a token for the console session sid.
func IssueAdminToken(secret, sid string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAdminToken validates tokenString and returns its console session id.
func ParseAdminToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub != adminSubject || sid == "" {
		return "", errInvalidToken
	}
	return sid, nil
}

// AdminToken finds the admin token in the Authorization header or, failing
// that, the admin cookie.
func AdminToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	token, err := c.Cookie(AdminCookie)
	if err != nil {
		return ""
	}
	return token
}

func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := AdminToken(c)
		if tokenString == "" {
			httperr.Unauthorized(c, "missing_token", "Sign in required.")
			c.Abort()
			return
		}

		sid, err := ParseAdminToken(cfg.JWTSecret, tokenString)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Session expired. Sign in again.")
			c.Abort()
			return
		}

		c.Set(ContextAdminSession, sid)
		c.Next()
	}
}

// SetAdminCookie stores token for the browser console. An empty token
// clears it.
func SetAdminCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	maxAge := int(ttl.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookie, token, maxAge, "/", "", secure, true)
}
