package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/logger"
)

// Claims is the signed token payload
type Claims struct {
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// AuthMiddleware validates HMAC-signed bearer tokens. Auth is optional: a
// nil middleware (no secret configured) passes every request through, which
// is the normal local-demo setup.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates the middleware, or nil when secret is empty
func NewAuthMiddleware(secret string) *AuthMiddleware {
	if secret == "" {
		return nil
	}
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth checks for a valid token on every request except /health
func (am *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	if am == nil {
		return c.Next()
	}
	if c.Path() == "/health" {
		return c.Next()
	}

	token := am.extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}

	claims, err := am.ValidateToken(token)
	if err != nil {
		logger.Debugf("auth failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	c.Locals("claims", claims)
	return c.Next()
}

// extractToken reads the bearer token from the Authorization header or the
// token query parameter
func (am *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}

// GenerateToken mints a signed token valid for ttl
func (am *AuthMiddleware) GenerateToken(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + am.sign(encoded), nil
}

// ValidateToken verifies the signature and expiry of a token
func (am *AuthMiddleware) ValidateToken(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed token")
	}

	if !hmac.Equal([]byte(am.sign(parts[0])), []byte(parts[1])) {
		return nil, fmt.Errorf("bad signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad payload encoding: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("bad payload: %w", err)
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("token expired")
	}
	return &claims, nil
}

func (am *AuthMiddleware) sign(encoded string) string {
	mac := hmac.New(sha256.New, am.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
