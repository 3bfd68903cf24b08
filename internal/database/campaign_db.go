package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"go-reports/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// CampaignDB holds the connection to the mailer's Postgres database.
// Campaigns are owned by the mailer; this service only reads them.
type CampaignDB struct {
	DB *sql.DB
}

// NewCampaignDatabase opens the external campaign database with lifecycle management
func NewCampaignDatabase(lc fx.Lifecycle, cfg *config.Config) (*CampaignDB, error) {
	db, err := sql.Open("postgres", cfg.CampaignDBURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open campaign database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping campaign database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Connected to campaign database!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing campaign database...")
			return db.Close()
		},
	})

	return &CampaignDB{DB: db}, nil
}
