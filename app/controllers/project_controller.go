package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleProjects(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	status, err := currentStatus(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	projects, err := projectRepo.ListByUser(userCtx.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load projects"}).Redirect("/dashboard")
	}

	return c.Render("projects", fiber.Map{
		"Title":    "Projects",
		"Name":     userCtx.Name,
		"Status":   status,
		"Projects": projects,
		"Flash":    flash.Get(c),
	})
}

func HandleProjectCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	rate, err := strconv.ParseFloat(c.FormValue("hourly_rate"), 64)
	if err != nil {
		rate = 0
	}
	project := &models.Project{
		UserID:     userCtx.UserID,
		Name:       c.FormValue("name"),
		HourlyRate: rate,
	}

	if err := project.Validate(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid project data: name is required and the hourly rate must be greater than zero"}).Redirect("/projects")
	}

	if err := projectRepo.Create(project); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Project could not be created"}).Redirect("/projects")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Project created"}).Redirect("/projects")
}

func HandleProjectUpdate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	projectUUID := c.Params("uuid")

	name := c.FormValue("name")
	rate, err := strconv.ParseFloat(c.FormValue("hourly_rate"), 64)
	if name == "" || err != nil || rate <= 0 {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid project data: name is required and the hourly rate must be greater than zero"}).Redirect("/projects")
	}

	if err := projectRepo.Update(userCtx.UserID, projectUUID, name, rate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "Project not found"}).Redirect("/projects")
		}
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Project could not be updated"}).Redirect("/projects")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Project updated"}).Redirect("/projects")
}

func HandleProjectDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	projectUUID := c.Params("uuid")

	if err := projectRepo.Delete(userCtx.UserID, projectUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "Project not found"}).Redirect("/projects")
		}
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Project could not be deleted"}).Redirect("/projects")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Project and its time entries deleted"}).Redirect("/projects")
}
