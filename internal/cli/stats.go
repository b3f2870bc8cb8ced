package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
)

// NewStatsCmd prints study statistics read from the configured state storage.
func NewStatsCmd(configPath *string) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress, mastery and reveal statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), cmd.OutOrStdout(), *configPath, locale)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "content locale (defaults to content.default_locale)")
	return cmd
}

func runStats(ctx context.Context, out io.Writer, configPath, rawLocale string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if rawLocale == "" {
		rawLocale = cfg.Content.DefaultLocale
	}
	locale, err := domain.ParseLocale(rawLocale)
	if err != nil {
		return err
	}

	c, err := buildComponents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	study := app.NewStudy(app.NewRegistry(c.storage, app.WithLogger(log)), c.questions)
	overview, err := study.Overview(ctx, locale)
	if err != nil {
		return err
	}
	printOverview(out, overview, study.Quiz.Mode())
	return nil
}

func printOverview(out io.Writer, o app.Overview, mode domain.QuizMode) {
	fmt.Fprintf(out, "Statistics (%s)\n", o.Locale)
	fmt.Fprintln(out, "-------------")
	fmt.Fprintf(out, "Questions:        %d\n", o.TotalQuestions)
	fmt.Fprintf(out, "Not seen:         %d\n", o.NotSeen)
	fmt.Fprintf(out, "Seen:             %d\n", o.Progress.Seen)
	fmt.Fprintf(out, "Mastered:         %d\n", o.Progress.Mastered)
	fmt.Fprintf(out, "Progress:         %d%%\n", o.ProgressPercentage)
	fmt.Fprintf(out, "Mastery:          %d%%\n", o.MasteryPercentage)
	fmt.Fprintf(out, "Favorites:        %d\n", o.Favorites)
	fmt.Fprintf(out, "Reveals:          %d over %d questions\n", o.Reveals.TotalReveals, o.Reveals.QuestionsRevealed)
	fmt.Fprintf(out, "Avg reveal time:  %ds\n", o.Reveals.AvgTimeToReveal)
	fmt.Fprintf(out, "Mode:             %s\n", mode)
}
