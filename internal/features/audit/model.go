package audit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActionReport   = "report"
	ActionTemplate = "report_template"
)

// Change records one field transition inside an audit entry
type Change struct {
	Old interface{} `json:"old,omitempty" bson:"old,omitempty"`
	New interface{} `json:"new,omitempty" bson:"new,omitempty"`
}

// AuditLog is one persisted change record
type AuditLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Action     string             `json:"action" bson:"action"`
	Collection string             `json:"collection" bson:"collection"`
	EntityID   string             `json:"entity_id" bson:"entity_id"`
	UserID     string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Changes    map[string]Change  `json:"changes" bson:"changes"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
