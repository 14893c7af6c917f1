package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/clocko-app/clocko/internal/pkg/billing"
	"github.com/clocko-app/clocko/internal/pkg/timetrack"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleDashboard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := currentUser(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	status := billing.ResolveStatus(user, time.Now())

	projects, err := projectRepo.ListByUser(userCtx.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load projects"}).Redirect("/")
	}

	active, err := tracker.Active(userCtx.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load the active timer"}).Redirect("/")
	}

	entries, err := tracker.Entries(userCtx.UserID, nil, nil)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load time entries"}).Redirect("/")
	}
	summary := timetrack.Summarize(entries)

	return c.Render("dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Name":     userCtx.Name,
		"Status":   status,
		"Projects": projects,
		"Active":   active,
		"Entries":  entries,
		"Summary":  summary,
		"Flash":    flash.Get(c),
	})
}
