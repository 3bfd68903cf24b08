package campaign

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-reports/internal/database"
)

// ErrNotFound is returned when no campaign exists for the requested id
var ErrNotFound = errors.New("campaign not found")

type CampaignRepository interface {
	Get(ctx context.Context, id int64) (*Campaign, error)
}

type CampaignRepositoryImpl struct {
	DB *sql.DB
}

func NewCampaignRepository(db *database.CampaignDB) CampaignRepository {
	return &CampaignRepositoryImpl{
		DB: db.DB,
	}
}

func (r *CampaignRepositoryImpl) Get(ctx context.Context, id int64) (*Campaign, error) {
	var c Campaign

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, cid, name, COALESCE(description, ''), COALESCE(subject, ''), status,
		       delivered, opened, clicks, bounced, complained, unsubscribed, created
		FROM campaigns
		WHERE id = $1`, id)

	err := row.Scan(&c.ID, &c.CID, &c.Name, &c.Description, &c.Subject, &c.Status,
		&c.Delivered, &c.Opened, &c.Clicks, &c.Bounced, &c.Complained, &c.Unsubscribed, &c.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign %d: %w", id, err)
	}

	return &c, nil
}
