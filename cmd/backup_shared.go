package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	adapterrepo "github.com/eslsoft/parcours/internal/adapter/repository"
	"github.com/eslsoft/parcours/internal/infrastructure/config"
	"github.com/eslsoft/parcours/internal/infrastructure/database"
	"github.com/eslsoft/parcours/internal/repository"
)

func openProgressRepository() (repository.ProgressRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, cleanup, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	return adapterrepo.NewProgressRepository(db, cfg.DatabaseDriver()), cleanup, nil
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
