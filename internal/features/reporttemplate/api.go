package reporttemplate

import (
	"go-reports/internal/config"
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	TemplateController *TemplateController
	Config             *config.Config
}

func NewTemplateApi(templateController *TemplateController, config *config.Config) *TemplateApi {
	return &TemplateApi{
		TemplateController: templateController,
		Config:             config,
	}
}

func (api *TemplateApi) Setup(app *fiber.App) {
	group := app.Group("/api/report-templates", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.TemplateController.Create)
	group.Get("/", api.TemplateController.List)
	group.Get("/quicklist", api.TemplateController.Quicklist)
	group.Get("/:id", api.TemplateController.Get)
	group.Get("/:id/fields", api.TemplateController.Fields)
	group.Put("/:id", api.TemplateController.Update)
	group.Delete("/:id", api.TemplateController.Delete)
}
