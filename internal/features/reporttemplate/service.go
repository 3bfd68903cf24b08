package reporttemplate

import (
	"context"

	"go-reports/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, template *ReportTemplate) error
	GetTemplate(ctx context.Context, id string) (*ReportTemplate, error)
	ListTemplates(ctx context.Context) ([]ReportTemplate, error)
	Quicklist(ctx context.Context) ([]TemplateRef, error)
	UpdateTemplate(ctx context.Context, id string, template *ReportTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	UserFieldRows(ctx context.Context, templateID string, form map[string]string) ([]UserFieldRow, error)
}

type TemplateServiceImpl struct {
	Repo         TemplateRepository
	AuditService audit.AuditService
}

func NewTemplateService(repo TemplateRepository, auditService audit.AuditService) TemplateService {
	return &TemplateServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, template *ReportTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	if template.ID.IsZero() {
		template.ID = primitive.NewObjectID()
	}
	err := s.Repo.Create(ctx, template)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, audit.ActionTemplate, "report_templates", template.ID.Hex(), map[string]audit.Change{
			"template": {New: template},
		})
	}
	return err
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, id string) (*ReportTemplate, error) {
	return s.Repo.Get(ctx, id)
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context) ([]ReportTemplate, error) {
	return s.Repo.List(ctx)
}

func (s *TemplateServiceImpl) Quicklist(ctx context.Context) ([]TemplateRef, error) {
	return s.Repo.Quicklist(ctx)
}

func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, id string, template *ReportTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	oldTemplate, _ := s.Repo.Get(ctx, id)
	err := s.Repo.Update(ctx, id, template)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, audit.ActionTemplate, "report_templates", id, map[string]audit.Change{
			"template": {Old: oldTemplate, New: template},
		})
	}
	return err
}

func (s *TemplateServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	oldTemplate, _ := s.Repo.Get(ctx, id)
	err := s.Repo.Delete(ctx, id)
	if err == nil {
		name := id
		if oldTemplate != nil {
			name = oldTemplate.Name
		}
		_ = s.AuditService.LogChange(ctx, audit.ActionTemplate, "report_templates", name, map[string]audit.Change{
			"template": {Old: oldTemplate, New: "DELETED"},
		})
	}
	return err
}

// UserFieldRows builds the editable field rows for a fresh create form, with
// any incoming "<id>Selection" values carried through
func (s *TemplateServiceImpl) UserFieldRows(ctx context.Context, templateID string, form map[string]string) ([]UserFieldRow, error) {
	template, err := s.Repo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return BuildUserFieldRows(template.UserFields, form, nil), nil
}
