package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

func HandleHome(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Render("index", fiber.Map{
		"Title": "clocko - time tracking for freelancers",
		"Flash": flash.Get(c),
	})
}
