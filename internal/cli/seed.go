package cli

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"interview-prep-service/internal/content"
	"interview-prep-service/internal/domain"
	pginfra "interview-prep-service/internal/infra/postgres"
)

// NewSeedCmd copies the markdown content tree into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load markdown questions into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory (defaults to content.dir)")
	return cmd
}

func runSeed(ctx context.Context, configPath, dir string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Content.Dir
	}
	if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
		return err
	}

	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := content.NewMarkdownLoader(dir, log)
	seeder := pginfra.NewSeeder(db)

	for _, locale := range domain.Locales {
		questions, err := loader.LoadQuestions(ctx, locale)
		if err != nil {
			return err
		}
		n, err := seeder.SeedQuestions(ctx, locale, questions)
		if err != nil {
			return err
		}

		home, err := loader.LoadHome(ctx, locale)
		switch {
		case errors.Is(err, domain.ErrHomeNotFound):
			log.WithField("locale", locale).Warn("no home page to seed")
		case err != nil:
			return err
		default:
			if err := seeder.SeedHome(ctx, home); err != nil {
				return err
			}
		}
		log.WithFields(logrus.Fields{"locale": locale, "questions": n}).Info("seeded content")
	}
	return nil
}
