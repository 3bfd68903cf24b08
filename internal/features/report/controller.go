package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// parseSaveRequest decodes the fixed fields and collects every other body key
// into the raw form, so "<fieldId>Selection" values reach the params builder
func parseSaveRequest(ctx *fiber.Ctx) (*SaveReportRequest, error) {
	var req SaveReportRequest
	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(ctx.Body(), &raw); err != nil {
		return nil, err
	}

	req.Form = make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			req.Form[key] = v
		case float64:
			req.Form[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return &req, nil
}

// saveFailure redisplays the submitted selections alongside the notice so the
// client can rebuild the form without losing what the user picked
func saveFailure(ctx *fiber.Ctx, status int, err error, req *SaveReportRequest) error {
	payload := fiber.Map{"error": err.Error()}
	if req != nil {
		payload["form"] = req.Form
	}
	return ctx.Status(status).JSON(payload)
}

// Create godoc
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	req, err := parseSaveRequest(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := c.ReportService.CreateReport(ctx.Context(), req)
	if err != nil {
		return saveFailure(ctx, fiber.StatusBadRequest, err, req)
	}

	return ctx.Status(fiber.StatusCreated).JSON(report)
}

// List godoc
func (c *ReportController) List(ctx *fiber.Ctx) error {
	var query ListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query"})
	}

	result, err := c.ReportService.ListReports(ctx.Context(), query)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// Get godoc
func (c *ReportController) Get(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	report, err := c.ReportService.GetReport(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}
	return ctx.JSON(report)
}

// Fields godoc
func (c *ReportController) Fields(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	form := make(map[string]string)
	ctx.Context().QueryArgs().VisitAll(func(key, value []byte) {
		form[string(key)] = string(value)
	})

	rows, err := c.ReportService.EditFieldRows(ctx.Context(), id, form)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rows)
}

// Update godoc
func (c *ReportController) Update(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	req, err := parseSaveRequest(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := c.ReportService.UpdateReport(ctx.Context(), id, req)
	if err != nil {
		return saveFailure(ctx, fiber.StatusBadRequest, err, req)
	}

	return ctx.JSON(report)
}

// Delete godoc
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	deleted, err := c.ReportService.DeleteReport(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !deleted {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Could not delete specified report"})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// View godoc
// Runs the generation pipeline and returns the rendered document. Failures
// come back as a single user-facing message plus the internal kind.
func (c *ReportController) View(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	doc, err := c.ReportService.ViewReport(ctx.Context(), id)
	if err != nil {
		if re, ok := AsRunError(err); ok {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": re.UserMessage(),
				"kind":  re.Kind,
			})
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(doc)
}

// ExportExcel godoc
func (c *ReportController) ExportExcel(ctx *fiber.Ctx) error {
	data, filename, err := c.ReportService.ExportListing(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}
