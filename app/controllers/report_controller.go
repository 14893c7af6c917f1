package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/clocko-app/clocko/internal/pkg/report"
	"github.com/clocko-app/clocko/internal/pkg/timetrack"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleReports(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	status, err := currentStatus(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	from := parseDate(c.Query("from"))
	to := parseDate(c.Query("to"))

	entries, err := tracker.Entries(userCtx.UserID, from, to)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load time entries"}).Redirect("/dashboard")
	}

	projects, err := projectRepo.ListByUser(userCtx.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load projects"}).Redirect("/dashboard")
	}

	return c.Render("reports", fiber.Map{
		"Title":    "Reports",
		"Name":     userCtx.Name,
		"Status":   status,
		"Entries":  entries,
		"Projects": projects,
		"Summary":  timetrack.Summarize(entries),
		"From":     c.Query("from"),
		"To":       c.Query("to"),
		"Flash":    flash.Get(c),
	})
}

func HandleReportExportCSV(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entries, err := tracker.Entries(userCtx.UserID, parseDate(c.Query("from")), parseDate(c.Query("to")))
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load time entries"}).Redirect("/reports")
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, entries); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Export failed"}).Redirect("/reports")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="clocko-report-%s.csv"`, time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}

func HandleReportExportPDF(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entries, err := tracker.Entries(userCtx.UserID, parseDate(c.Query("from")), parseDate(c.Query("to")))
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not load time entries"}).Redirect("/reports")
	}

	pdfBytes, err := report.GeneratePDF(entries, time.Now())
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Export failed"}).Redirect("/reports")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="clocko-report-%s.pdf"`, time.Now().Format("2006-01-02")))
	return c.Send(pdfBytes)
}
