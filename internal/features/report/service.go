package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-reports/internal/features/audit"
	"go-reports/internal/features/reporttemplate"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReportService interface {
	CreateReport(ctx context.Context, req *SaveReportRequest) (*Report, error)
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, query ListQuery) (*ListResult, error)
	UpdateReport(ctx context.Context, id string, req *SaveReportRequest) (*Report, error)
	DeleteReport(ctx context.Context, id string) (bool, error)
	ViewReport(ctx context.Context, id string) (*Document, error)
	EditFieldRows(ctx context.Context, id string, form map[string]string) ([]reporttemplate.UserFieldRow, error)
	ExportListing(ctx context.Context) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Repo         ReportRepository
	Templates    reporttemplate.TemplateRepository
	Resolver     *FieldResolver
	Executor     *SandboxExecutor
	AuditService audit.AuditService
	Log          *zap.Logger

	striptags *bluemonday.Policy
}

func NewReportService(
	repo ReportRepository,
	templates reporttemplate.TemplateRepository,
	resolver *FieldResolver,
	executor *SandboxExecutor,
	auditService audit.AuditService,
	log *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		Repo:         repo,
		Templates:    templates,
		Resolver:     resolver,
		Executor:     executor,
		AuditService: auditService,
		Log:          log,
		striptags:    bluemonday.StrictPolicy(),
	}
}

// buildReport resolves the template reference and turns the submitted form
// into a complete params object. Create and edit share this path; neither
// ever runs the script.
func (s *ReportServiceImpl) buildReport(ctx context.Context, req *SaveReportRequest) (*Report, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("report name is required")
	}

	template, err := s.Templates.Get(ctx, req.ReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("could not find report template: %w", err)
	}

	params, err := reporttemplate.BuildParamsObject(template.UserFields, req.Form)
	if err != nil {
		return nil, err
	}

	return &Report{
		Name:           req.Name,
		Description:    req.Description,
		ReportTemplate: template.ID,
		Params:         params,
	}, nil
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context, req *SaveReportRequest) (*Report, error) {
	report, err := s.buildReport(ctx, req)
	if err != nil {
		return nil, err
	}

	report.ID = primitive.NewObjectID()
	if err := s.Repo.Create(ctx, report); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, audit.ActionReport, "reports", report.ID.Hex(), map[string]audit.Change{
		"report": {New: report},
	})

	return report, nil
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, id string) (*Report, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ReportServiceImpl) ListReports(ctx context.Context, query ListQuery) (*ListResult, error) {
	reports, total, filtered, err := s.Repo.Filter(ctx, query)
	if err != nil {
		return nil, err
	}

	// Annotate rows with their template name; quicklist is one query
	refs, err := s.Templates.Quicklist(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(refs))
	for _, ref := range refs {
		names[ref.ID] = ref.Name
	}

	rows := make([]ListRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, ListRow{
			ID:           r.ID,
			Name:         r.Name,
			TemplateName: names[r.ReportTemplate],
			Description:  s.striptags.Sanitize(r.Description),
			CreatedAt:    r.CreatedAt,
		})
	}

	return &ListResult{Rows: rows, Total: total, FilteredTotal: filtered}, nil
}

func (s *ReportServiceImpl) UpdateReport(ctx context.Context, id string, req *SaveReportRequest) (*Report, error) {
	oldReport, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not find report: %w", err)
	}

	report, err := s.buildReport(ctx, req)
	if err != nil {
		return nil, err
	}
	report.ID = oldReport.ID
	report.CreatedAt = oldReport.CreatedAt

	if err := s.Repo.Update(ctx, id, report); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, audit.ActionReport, "reports", id, map[string]audit.Change{
		"report": {Old: oldReport, New: report},
	})

	return report, nil
}

func (s *ReportServiceImpl) DeleteReport(ctx context.Context, id string) (bool, error) {
	oldReport, _ := s.Repo.Get(ctx, id)
	deleted, err := s.Repo.Delete(ctx, id)
	if err == nil && deleted {
		name := id
		if oldReport != nil {
			name = oldReport.Name
		}
		_ = s.AuditService.LogChange(ctx, audit.ActionReport, "reports", name, map[string]audit.Change{
			"report": {Old: oldReport, New: "DELETED"},
		})
	}
	return deleted, err
}

// ViewReport runs the full generation pipeline: resolve the saved params,
// execute the template script in the sandbox, render its outputs through the
// markup. Any stage failure aborts the run; no partial document is returned.
func (s *ReportServiceImpl) ViewReport(ctx context.Context, id string) (*Document, error) {
	report, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not find report: %w", err)
	}

	template, err := s.Templates.Get(ctx, report.ReportTemplate.Hex())
	if err != nil {
		return nil, fmt.Errorf("could not find report template: %w", err)
	}

	log := s.Log.With(
		zap.String("reportId", report.ID.Hex()),
		zap.String("templateId", template.ID.Hex()),
	)

	inputs, err := s.Resolver.Resolve(ctx, template.UserFields, report.Params)
	if err != nil {
		log.Warn("field resolution failed", zap.Error(err))
		return nil, err
	}

	outputs, err := s.Executor.Execute(ctx, template.JS, inputs)
	if err != nil {
		if re, ok := AsRunError(err); ok && re.Kind == KindTimeout {
			log.Error("report script timed out", zap.Error(err))
		} else {
			log.Warn("report script failed", zap.Error(err))
		}
		return nil, err
	}

	doc, err := RenderDocument(template.HBS, outputs)
	if err != nil {
		log.Warn("report rendering failed", zap.Error(err))
		return nil, err
	}

	log.Info("report generated", zap.String("title", doc.Title))
	return doc, nil
}

// EditFieldRows builds the editable rows for an existing report's edit form.
// Submitted "<id>Selection" values win over the saved params so a failed
// submission redisplays what the user typed.
func (s *ReportServiceImpl) EditFieldRows(ctx context.Context, id string, form map[string]string) ([]reporttemplate.UserFieldRow, error) {
	report, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not find report: %w", err)
	}

	template, err := s.Templates.Get(ctx, report.ReportTemplate.Hex())
	if err != nil {
		return nil, fmt.Errorf("could not find report template: %w", err)
	}

	return reporttemplate.BuildUserFieldRows(template.UserFields, form, report.Params), nil
}
