package app

import (
	"database/sql"

	adapterrepo "github.com/eslsoft/parcours/internal/adapter/repository"
	"github.com/eslsoft/parcours/internal/content"
	"github.com/eslsoft/parcours/internal/infrastructure/config"
	"github.com/eslsoft/parcours/internal/repository"
	"github.com/eslsoft/parcours/internal/usecase"
)

func provideGraph(cfg *config.Config) (*content.Graph, error) {
	return content.LoadGraph(cfg.Content.Path)
}

func provideProgressRepository(db *sql.DB, cfg *config.Config) repository.ProgressRepository {
	return adapterrepo.NewProgressRepository(db, cfg.DatabaseDriver())
}

func provideTuning(cfg *config.Config) usecase.Tuning {
	return usecase.Tuning{
		XPBase:                  cfg.Engine.XPBase,
		FirstReviewIntervalDays: cfg.Engine.FirstReviewIntervalDays,
		ReviewGrowthFactor:      cfg.Engine.ReviewGrowthFactor,
		DefaultTimezone:         cfg.Engine.DefaultTimezone,
		MaxSaveRetries:          cfg.Engine.MaxSaveRetries,
	}
}
