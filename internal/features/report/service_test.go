package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-reports/internal/features/audit"
	"go-reports/internal/features/reporttemplate"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeTemplateRepo struct {
	templates map[string]*reporttemplate.ReportTemplate
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *reporttemplate.ReportTemplate) error {
	f.templates[t.ID.Hex()] = t
	return nil
}

func (f *fakeTemplateRepo) Get(ctx context.Context, id string) (*reporttemplate.ReportTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return t, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]reporttemplate.ReportTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) Quicklist(ctx context.Context) ([]reporttemplate.TemplateRef, error) {
	refs := make([]reporttemplate.TemplateRef, 0, len(f.templates))
	for _, t := range f.templates {
		refs = append(refs, reporttemplate.TemplateRef{ID: t.ID, Name: t.Name})
	}
	return refs, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, id string, t *reporttemplate.ReportTemplate) error {
	f.templates[id] = t
	return nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error {
	delete(f.templates, id)
	return nil
}

type fakeReportRepo struct {
	reports map[string]*Report
}

func (f *fakeReportRepo) Create(ctx context.Context, r *Report) error {
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	f.reports[r.ID.Hex()] = r
	return nil
}

func (f *fakeReportRepo) Get(ctx context.Context, id string) (*Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r, nil
}

func (f *fakeReportRepo) Filter(ctx context.Context, query ListQuery) ([]Report, int64, int64, error) {
	var rows []Report
	for _, r := range f.reports {
		rows = append(rows, *r)
	}
	n := int64(len(rows))
	return rows, n, n, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, id string, r *Report) error {
	f.reports[id] = r
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := f.reports[id]
	delete(f.reports, id)
	return ok, nil
}

type nopAudit struct{}

func (nopAudit) LogChange(ctx context.Context, action, collection, entityID string, changes map[string]audit.Change) error {
	return nil
}

func (nopAudit) ListChanges(ctx context.Context, entityID string, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

func (nopAudit) Prune(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

func newTestService(campaigns *fakeCampaigns, templates ...*reporttemplate.ReportTemplate) (ReportService, *fakeReportRepo, *fakeTemplateRepo) {
	templateRepo := &fakeTemplateRepo{templates: make(map[string]*reporttemplate.ReportTemplate)}
	for _, t := range templates {
		templateRepo.templates[t.ID.Hex()] = t
	}
	reportRepo := &fakeReportRepo{reports: make(map[string]*Report)}

	svc := NewReportService(
		reportRepo,
		templateRepo,
		&FieldResolver{Campaigns: campaigns},
		&SandboxExecutor{Timeout: time.Second, Log: zap.NewNop()},
		nopAudit{},
		zap.NewNop(),
	)
	return svc, reportRepo, templateRepo
}

func summaryTemplate() *reporttemplate.ReportTemplate {
	return &reporttemplate.ReportTemplate{
		ID:   primitive.NewObjectID(),
		Name: "Campaign summary",
		UserFields: []reporttemplate.UserFieldSpec{
			singleSpec("camp"),
			multiSpec("extras"),
		},
		JS: `
			names := []
			for _, c in inputs.extras {
				names = append(names, c.name)
			}
			callback(undefined, {title: inputs.camp.name, names: names})
		`,
		HBS: `<h1>{{title}}</h1><ul>{{#each names}}<li>{{this}}</li>{{/each}}</ul>`,
	}
}

func TestViewReportPipeline(t *testing.T) {
	template := summaryTemplate()
	svc, reportRepo, _ := newTestService(&fakeCampaigns{}, template)

	report := &Report{
		ID:             primitive.NewObjectID(),
		Name:           "Weekly",
		ReportTemplate: template.ID,
		Params:         reporttemplate.ParamsObject{"camp": {7}, "extras": {3, 5}},
	}
	reportRepo.reports[report.ID.Hex()] = report

	doc, err := svc.ViewReport(context.Background(), report.ID.Hex())
	if err != nil {
		t.Fatalf("ViewReport() error = %v", err)
	}

	if doc.Title != "Campaign 7" {
		t.Errorf("title = %q, want %q", doc.Title, "Campaign 7")
	}
	want := `<h1>Campaign 7</h1><ul><li>Campaign 3</li><li>Campaign 5</li></ul>`
	if doc.Body != want {
		t.Errorf("body = %q, want %q", doc.Body, want)
	}
}

func TestViewReportShortCircuits(t *testing.T) {
	template := summaryTemplate()
	template.UserFields = []reporttemplate.UserFieldSpec{{ID: "mystery", Type: "foo"}}
	// The script would produce a document; it must never run
	template.JS = `callback(undefined, {title: "ran"})`

	campaigns := &fakeCampaigns{}
	svc, reportRepo, _ := newTestService(campaigns, template)

	report := &Report{
		ID:             primitive.NewObjectID(),
		ReportTemplate: template.ID,
		Params:         reporttemplate.ParamsObject{"mystery": {1}},
	}
	reportRepo.reports[report.ID.Hex()] = report

	_, err := svc.ViewReport(context.Background(), report.ID.Hex())
	re, ok := AsRunError(err)
	if !ok || re.Kind != KindUnknownFieldType {
		t.Fatalf("expected %s error, got %v", KindUnknownFieldType, err)
	}
	if len(campaigns.calls) != 0 {
		t.Errorf("resolution must abort before any lookup, got %v", campaigns.calls)
	}
}

func TestViewReportEscapesScriptValues(t *testing.T) {
	template := summaryTemplate()
	template.JS = `callback(undefined, {title: "t", names: ["<script>alert(1)</script>"]})`

	svc, reportRepo, _ := newTestService(&fakeCampaigns{}, template)

	report := &Report{
		ID:             primitive.NewObjectID(),
		ReportTemplate: template.ID,
		Params:         reporttemplate.ParamsObject{"camp": {7}, "extras": {}},
	}
	reportRepo.reports[report.ID.Hex()] = report

	doc, err := svc.ViewReport(context.Background(), report.ID.Hex())
	if err != nil {
		t.Fatalf("ViewReport() error = %v", err)
	}
	if strings.Contains(doc.Body, "<script>") {
		t.Errorf("body %q contains unescaped script output", doc.Body)
	}
}

func TestCreateReportBuildsParams(t *testing.T) {
	template := summaryTemplate()
	svc, _, _ := newTestService(&fakeCampaigns{}, template)

	req := &SaveReportRequest{
		Name:           "Weekly",
		ReportTemplate: template.ID.Hex(),
		Form: map[string]string{
			"campSelection":   "7",
			"extrasSelection": "3,5,5",
		},
	}

	report, err := svc.CreateReport(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}

	want := reporttemplate.ParamsObject{"camp": {7}, "extras": {3, 5, 5}}
	if diff := cmp.Diff(want, report.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	// The edit form reproduces the submitted selections
	rows, err := svc.EditFieldRows(context.Background(), report.ID.Hex(), nil)
	if err != nil {
		t.Fatalf("EditFieldRows() error = %v", err)
	}
	values := map[string]string{}
	for _, row := range rows {
		values[row.ID] = row.Value
	}
	if values["camp"] != "7" || values["extras"] != "3,5,5" {
		t.Errorf("unexpected edit row values: %v", values)
	}
}

func TestCreateReportRejectsBadSelection(t *testing.T) {
	template := summaryTemplate()
	svc, _, _ := newTestService(&fakeCampaigns{}, template)

	req := &SaveReportRequest{
		Name:           "Weekly",
		ReportTemplate: template.ID.Hex(),
		Form:           map[string]string{"extrasSelection": "3,oops"},
	}

	if _, err := svc.CreateReport(context.Background(), req); err == nil {
		t.Fatal("expected an error for a malformed selection")
	}
}

func TestCreateReportRequiresName(t *testing.T) {
	template := summaryTemplate()
	svc, _, _ := newTestService(&fakeCampaigns{}, template)

	req := &SaveReportRequest{ReportTemplate: template.ID.Hex(), Form: map[string]string{}}
	if _, err := svc.CreateReport(context.Background(), req); err == nil {
		t.Fatal("expected an error for a missing name")
	}
}

func TestListReportsStripsTags(t *testing.T) {
	template := summaryTemplate()
	svc, reportRepo, _ := newTestService(&fakeCampaigns{}, template)

	report := &Report{
		ID:             primitive.NewObjectID(),
		Name:           "Weekly",
		Description:    `<b>bold</b> text`,
		ReportTemplate: template.ID,
	}
	reportRepo.reports[report.ID.Hex()] = report

	result, err := svc.ListReports(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(result.Rows))
	}

	row := result.Rows[0]
	if row.Description != "bold text" {
		t.Errorf("description = %q, tags must be stripped", row.Description)
	}
	if row.TemplateName != "Campaign summary" {
		t.Errorf("template name = %q", row.TemplateName)
	}
	if result.Total != 1 || result.FilteredTotal != 1 {
		t.Errorf("totals = %d/%d, want 1/1", result.Total, result.FilteredTotal)
	}
}
