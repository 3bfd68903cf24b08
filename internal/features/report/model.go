package report

import (
	"time"

	"go-reports/internal/features/reporttemplate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a saved instance of a template: the chosen template plus the
// concrete parameter selections. Viewing never mutates it.
type Report struct {
	ID             primitive.ObjectID          `json:"id" bson:"_id,omitempty"`
	Name           string                      `json:"name" bson:"name"`
	Description    string                      `json:"description" bson:"description"`
	ReportTemplate primitive.ObjectID          `json:"report_template" bson:"report_template"`
	Params         reporttemplate.ParamsObject `json:"params" bson:"params"`
	CreatedAt      time.Time                   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at" bson:"updated_at"`
}

// ResolvedInputs maps a field id to its materialized value: a single campaign
// map for min==max==1 fields, otherwise an ordered slice of campaign maps.
// Built fresh for every view and discarded after rendering.
type ResolvedInputs map[string]interface{}

// ScriptOutputs is whatever the template script handed to its completion
// callback. It must carry a "title"; the rest is consumed by the markup.
type ScriptOutputs map[string]interface{}

// Title returns the outputs' title field, empty when absent or not a string
func (o ScriptOutputs) Title() string {
	title, _ := o["title"].(string)
	return title
}

// Document is the final rendered report handed to the presentation layer
type Document struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListRow is one row of the report listing
type ListRow struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	TemplateName string             `json:"template_name"`
	Description  string             `json:"description"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ListQuery is the paging/search request of the listing endpoint
type ListQuery struct {
	Start  int64  `json:"start" query:"start"`
	Limit  int64  `json:"limit" query:"limit"`
	Search string `json:"search" query:"search"`
}

// ListResult mirrors the DataTables-style contract of the reference UI
type ListResult struct {
	Rows          []ListRow `json:"rows"`
	Total         int64     `json:"total"`
	FilteredTotal int64     `json:"filtered_total"`
}

// SaveReportRequest is the create/edit payload. Field selections arrive as
// "<fieldId>Selection" keys next to the fixed fields; the controller collects
// them into Form before the service builds the params object.
type SaveReportRequest struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	ReportTemplate string            `json:"report_template"`
	Form           map[string]string `json:"-"`
}
