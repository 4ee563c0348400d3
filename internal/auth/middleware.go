package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/atende/servicedesk/pkg/apperrors"
)

const actorKey = "auth_actor_id"

// ActorMiddleware extracts the acting-user identity from bearer tokens.
// Authorization itself lives outside this service; the verified subject is
// carried only as audit metadata on mutations.
type ActorMiddleware struct {
	tokens *TokenManager
}

// NewActorMiddleware constructs middleware.
func NewActorMiddleware(tokens *TokenManager) *ActorMiddleware {
	return &ActorMiddleware{tokens: tokens}
}

// Optional records the actor when a valid token is present and passes the
// request through otherwise. System-originated calls carry no actor.
func (m *ActorMiddleware) Optional(c *fiber.Ctx) error {
	if actorID, ok := m.actorFromHeader(c); ok {
		c.Locals(actorKey, actorID)
	}
	return c.Next()
}

// Required rejects requests without a verifiable actor identity.
func (m *ActorMiddleware) Required(c *fiber.Ctx) error {
	actorID, ok := m.actorFromHeader(c)
	if !ok {
		return apperrors.NewUnauthorized("valid bearer token required")
	}
	c.Locals(actorKey, actorID)
	return c.Next()
}

func (m *ActorMiddleware) actorFromHeader(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	actorID, err := m.tokens.ParseActorID(parts[1])
	if err != nil {
		return "", false
	}
	return actorID, true
}

// ActorFromContext retrieves the acting-user id, when present.
func ActorFromContext(c *fiber.Ctx) *string {
	val, ok := c.Locals(actorKey).(string)
	if !ok || val == "" {
		return nil
	}
	return &val
}
