package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/internal/pkg/session"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		if isLoggedIn(c) {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Render("login", fiber.Map{
			"Title": "Login",
			"Flash": flash.Get(c),
		})
	}

	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := userRepo.GetByEmail(email)
	if err != nil || !user.CheckPassword(password) {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid email or password"}).Redirect("/login")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded"}).Redirect("/login")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserName, user.Name)
	if err := sess.Save(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be saved"}).Redirect("/login")
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = userRepo.Update(user)

	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		if isLoggedIn(c) {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Render("register", fiber.Map{
			"Title": "Register",
			"Flash": flash.Get(c),
		})
	}

	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := models.CreateUser(name, email, password)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Please check your name, email and password (min. 6 characters)"}).Redirect("/register")
	}

	if err := userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "An account with this email already exists"}).Redirect("/register")
		}
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Registration failed, please try again"}).Redirect("/register")
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Account created. Your 7-day trial has started - please log in."}).Redirect("/login")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	c.Locals(usercontext.KeyFromProtected, false)
	return c.Redirect("/", fiber.StatusSeeOther)
}
