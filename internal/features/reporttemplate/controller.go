package reporttemplate

import (
	"github.com/gofiber/fiber/v2"
)

type TemplateController struct {
	TemplateService TemplateService
}

func NewTemplateController(templateService TemplateService) *TemplateController {
	return &TemplateController{TemplateService: templateService}
}

// Create godoc
func (c *TemplateController) Create(ctx *fiber.Ctx) error {
	var template ReportTemplate
	if err := ctx.BodyParser(&template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.TemplateService.CreateTemplate(ctx.Context(), &template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(template)
}

// List godoc
func (c *TemplateController) List(ctx *fiber.Ctx) error {
	templates, err := c.TemplateService.ListTemplates(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(templates)
}

// Quicklist godoc
func (c *TemplateController) Quicklist(ctx *fiber.Ctx) error {
	refs, err := c.TemplateService.Quicklist(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(refs)
}

// Get godoc
func (c *TemplateController) Get(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	template, err := c.TemplateService.GetTemplate(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report template not found"})
	}
	return ctx.JSON(template)
}

// Fields godoc
// Returns the editable user-field rows for a create form. Incoming
// "<id>Selection" query values are carried through so a redisplayed form
// keeps what the user already picked.
func (c *TemplateController) Fields(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	form := make(map[string]string)
	ctx.Context().QueryArgs().VisitAll(func(key, value []byte) {
		form[string(key)] = string(value)
	})

	rows, err := c.TemplateService.UserFieldRows(ctx.Context(), id, form)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report template not found"})
	}
	return ctx.JSON(rows)
}

// Update godoc
func (c *TemplateController) Update(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var template ReportTemplate
	if err := ctx.BodyParser(&template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.TemplateService.UpdateTemplate(ctx.Context(), id, &template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(template)
}

// Delete godoc
func (c *TemplateController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.TemplateService.DeleteTemplate(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
