package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aktagon/sitegen/internal/logger"
	"github.com/aktagon/sitegen/internal/site"
)

var (
	settingsPath string
	articlesDir  string
	outputDir    string
	templatesDir string
	latestCount  int
	locale       string
	markdownMode bool
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Build the static article site",
	Long: `Rebuilds the output directory from the article sources: one page per article,
index.html with the latest articles, all.html with every article and search-index.json.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if debugMode {
			level = "debug"
		}
		log, err := logger.New(logger.Config{Level: level})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		settings.Apply(overridesFromFlags(cmd))

		builder, err := site.NewBuilder(settings.Options(), site.WithLogger(log))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if _, err := builder.Build(ctx); err != nil {
			log.Error("Build failed", logger.Err(err))
			return err
		}
		return nil
	},
}

// resolveSettings loads the settings file; an explicit --config must exist
func resolveSettings(cmd *cobra.Command) (*Settings, error) {
	if cmd.Flags().Changed("config") {
		return loadSettingsRequired(settingsPath)
	}
	return loadSettings(defaultSettingsPath)
}

// overridesFromFlags collects the flags set on the command line
func overridesFromFlags(cmd *cobra.Command) *ConfigOverrides {
	flags := cmd.Flags()
	overrides := &ConfigOverrides{}
	if flags.Changed("articles") {
		overrides.ArticlesDir = &articlesDir
	}
	if flags.Changed("output") {
		overrides.OutputDir = &outputDir
	}
	if flags.Changed("templates") {
		overrides.TemplatesDir = &templatesDir
	}
	if flags.Changed("latest") {
		overrides.LatestCount = &latestCount
	}
	if flags.Changed("locale") {
		overrides.Locale = &locale
	}
	if flags.Changed("markdown") {
		overrides.Markdown = &markdownMode
	}
	return overrides
}

func init() {
	rootCmd.Flags().StringVar(&settingsPath, "config", defaultSettingsPath, "Path to settings YAML file")
	rootCmd.Flags().StringVar(&articlesDir, "articles", site.DefaultSourceRoot, "Article source directory")
	rootCmd.Flags().StringVar(&outputDir, "output", site.DefaultOutputRoot, "Output directory (deleted and rebuilt)")
	rootCmd.Flags().StringVar(&templatesDir, "templates", site.DefaultTemplatesDir, "Directory with head.html, ad.html and footer.html")
	rootCmd.Flags().IntVar(&latestCount, "latest", site.DefaultLatestCount, "Number of articles on index.html")
	rootCmd.Flags().StringVar(&locale, "locale", site.DefaultLocale, "Locale used to sort all.html by title")
	rootCmd.Flags().BoolVar(&markdownMode, "markdown", false, "Also write a Markdown copy of every article page")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
