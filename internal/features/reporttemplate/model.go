package reporttemplate

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldType string

const (
	// FieldTypeCampaign is currently the only resolvable field type.
	// The enum is open so new resolvers can be added alongside.
	FieldTypeCampaign FieldType = "campaign"
)

// UserFieldSpec declares one parameter a report template needs from the user
type UserFieldSpec struct {
	ID             string    `json:"id" bson:"id"`
	Name           string    `json:"name" bson:"name"`
	Type           FieldType `json:"type" bson:"type"`
	MinOccurrences int       `json:"min_occurrences" bson:"min_occurrences"`
	MaxOccurrences int       `json:"max_occurrences" bson:"max_occurrences"` // 0 means unbounded
}

// IsMulti reports whether the field takes a list of values rather than one
func (s UserFieldSpec) IsMulti() bool {
	return !(s.MinOccurrences == 1 && s.MaxOccurrences == 1)
}

// ParamsObject maps a field spec id to the raw campaign ids the user picked,
// one entry per declared field, in selection order with duplicates preserved.
// It is owned by the report that stores it.
type ParamsObject map[string][]int64

// ReportTemplate bundles the declared user fields, the computation script and
// the Handlebars presentation markup
type ReportTemplate struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	UserFields  []UserFieldSpec    `json:"user_fields" bson:"user_fields"`
	JS          string             `json:"js" bson:"js"`
	HBS         string             `json:"hbs" bson:"hbs"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// TemplateRef is the quicklist row used by selection UIs
type TemplateRef struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

// Validate checks the structural invariants of the declared fields
func (t *ReportTemplate) Validate() error {
	seen := make(map[string]bool, len(t.UserFields))
	for _, spec := range t.UserFields {
		if spec.ID == "" {
			return fmt.Errorf("user field without an id")
		}
		if seen[spec.ID] {
			return fmt.Errorf("duplicate user field id %q", spec.ID)
		}
		seen[spec.ID] = true

		if spec.MinOccurrences < 0 || spec.MaxOccurrences < 0 {
			return fmt.Errorf("user field %q: negative occurrence bound", spec.ID)
		}
		if spec.MaxOccurrences != 0 && spec.MinOccurrences > spec.MaxOccurrences {
			return fmt.Errorf("user field %q: min occurrences exceeds max", spec.ID)
		}
	}
	return nil
}
