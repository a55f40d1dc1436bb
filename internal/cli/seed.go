package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/infra/postgres"
	"vocab-quiz-service/internal/infra/wordfile"
)

// NewSeedCmd imports a YAML word file into the Postgres words table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import words from a YAML file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if file == "" {
				file = cfg.Quiz.WordsFile
			}
			if file == "" {
				return fmt.Errorf("no words file given")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			words, err := wordfile.NewLoader(file).LoadWords(cmd.Context())
			if err != nil {
				return err
			}
			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()

			n, err := postgres.SeedWords(cmd.Context(), db, words)
			if err != nil {
				return err
			}
			logger.Info("words seeded", zap.String("file", file), zap.Int64("rows", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML word file (defaults to quiz.words_file)")
	return cmd
}
