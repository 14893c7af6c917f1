package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/clocko-app/clocko/app/repository"
	"github.com/clocko-app/clocko/internal/pkg/billing"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireActiveSubscription gates mutating actions on subscription status.
// The client already disables controls for inactive users; this is the
// server-side enforcement behind it, so the action endpoints cannot be driven
// directly while inactive.
func RequireActiveSubscription(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		user, err := users.GetByID(userCtx.UserID)
		if err != nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		status := billing.ResolveStatus(user, time.Now())
		if !status.IsActive {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "Your subscription is inactive. Update billing to make changes.",
			}).Redirect("/billing")
		}
		return c.Next()
	}
}
