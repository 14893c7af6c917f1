package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/app/repository"
	"github.com/clocko-app/clocko/internal/pkg/billing"
	"github.com/clocko-app/clocko/internal/pkg/env"
	"github.com/clocko-app/clocko/internal/pkg/timetrack"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

var (
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	tracker     *timetrack.Service
	billingSvc  *billing.Service
)

// InitializeControllers wires the shared repositories and services into the
// handler package. Called once during router installation.
func InitializeControllers(repos *repository.Repositories, svc *billing.Service) {
	userRepo = repos.User
	projectRepo = repos.Project
	tracker = timetrack.NewService(repos.TimeEntry, repos.Project)
	billingSvc = svc
}

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(usercontext.KeyFromProtected); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// currentUser loads the authenticated user's row. Callers must sit behind
// RequireAuth.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	return userRepo.GetByID(usercontext.GetUserID(c))
}

func currentStatus(c *fiber.Ctx) (billing.Status, error) {
	user, err := currentUser(c)
	if err != nil {
		return billing.Status{}, err
	}
	return billing.ResolveStatus(user, time.Now()), nil
}

func appBaseURL() string {
	return env.GetEnv("APP_URL", "http://localhost:4000")
}

// parseDate parses a yyyy-mm-dd query parameter; empty or malformed values
// mean "no bound".
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// parseDateTime accepts both the datetime-local form format and RFC 3339.
func parseDateTime(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
