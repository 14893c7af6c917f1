package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/clocko-app/clocko/internal/pkg/timetrack"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleTimerStart(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if _, err := tracker.Start(userCtx.UserID, c.FormValue("project_id")); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": timerErrorMessage(err)}).Redirect("/dashboard")
	}

	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func HandleTimerStop(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if _, err := tracker.Stop(userCtx.UserID); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": timerErrorMessage(err)}).Redirect("/dashboard")
	}

	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func HandleManualEntryCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	projectUUID := c.FormValue("project_id")
	startRaw := c.FormValue("start_time")
	endRaw := c.FormValue("end_time")
	if projectUUID == "" || startRaw == "" || endRaw == "" {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Missing required fields"}).Redirect("/reports")
	}

	start, okStart := parseDateTime(startRaw)
	end, okEnd := parseDateTime(endRaw)
	if !okStart || !okEnd {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid start or end time"}).Redirect("/reports")
	}

	if _, err := tracker.CreateManual(userCtx.UserID, projectUUID, start, end); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": timerErrorMessage(err)}).Redirect("/reports")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Time entry added"}).Redirect("/reports")
}

func HandleTimeEntryDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if err := tracker.Delete(userCtx.UserID, c.Params("uuid")); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": timerErrorMessage(err)}).Redirect("/reports")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Time entry deleted"}).Redirect("/reports")
}

// timerErrorMessage maps service errors to the messages shown inline on the
// form. Not-found and not-owned rows get the same generic message.
func timerErrorMessage(err error) string {
	switch {
	case errors.Is(err, timetrack.ErrTimerAlreadyRunning),
		errors.Is(err, timetrack.ErrNoActiveTimer),
		errors.Is(err, timetrack.ErrInvalidRange),
		errors.Is(err, timetrack.ErrMissingFields):
		return err.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "Not found"
	default:
		return "Something went wrong, please try again"
	}
}
