package reporttemplate

import (
	"context"
	"time"

	"go-reports/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *ReportTemplate) error
	Get(ctx context.Context, id string) (*ReportTemplate, error)
	List(ctx context.Context) ([]ReportTemplate, error)
	Quicklist(ctx context.Context) ([]TemplateRef, error)
	Update(ctx context.Context, id string, template *ReportTemplate) error
	Delete(ctx context.Context, id string) error
}

type TemplateRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTemplateRepository(db *database.MongodbDB) TemplateRepository {
	return &TemplateRepositoryImpl{
		Collection: db.DB.Collection("report_templates"),
	}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, template *ReportTemplate) error {
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, template)
	return err
}

func (r *TemplateRepositoryImpl) Get(ctx context.Context, id string) (*ReportTemplate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var template ReportTemplate
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&template)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepositoryImpl) List(ctx context.Context) ([]ReportTemplate, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []ReportTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepositoryImpl) Quicklist(ctx context.Context) ([]TemplateRef, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.M{"name": 1})

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refs []TemplateRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, id string, template *ReportTemplate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	template.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":        template.Name,
			"description": template.Description,
			"user_fields": template.UserFields,
			"js":          template.JS,
			"hbs":         template.HBS,
			"updated_at":  template.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
