package middleware

import (
	"context"
	"strings"

	"chirper/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// OptionalIdentity annotates the request with the bearer token's user when the
// token is valid. Requests without a token, or with a bad one, pass through
// unchanged.
func OptionalIdentity(tokens *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokens == nil {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			return c.Next()
		}

		claims, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			return c.Next()
		}
		userID, err := claims.UserID()
		if err != nil {
			return c.Next()
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
		return c.Next()
	}
}
