package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ArticlesRenderer/internal/app"
	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/logging"
	"ArticlesRenderer/internal/pages"
)

type rootOptions struct {
	configPath string
	logLevel   string
	root       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "articlesrenderer",
		Short: "Pre-render article feed and detail pages from the articles API",
		Long: `articlesrenderer fills the article templates of static pages with data
from the articles JSON API and writes the populated pages.

Example usage:
  articlesrenderer render --config renderer.yaml
  articlesrenderer page --in site/article.html --out dist/article.html --url "article.html?id=42"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $ARTICLES_RENDERER_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "directory that relative page paths are resolved against")

	cmd.AddCommand(newRenderCmd(opts), newPageCmd(opts), newSectionsCmd())
	return cmd
}

func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger := logging.New(cfg.Logging.Level)
	logger.Debug("configuration loaded",
		"api_origin", cfg.API.Origin,
		"pages", len(cfg.Pages),
		"concurrency", cfg.Render.Concurrency,
	)
	return cfg, logger, nil
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render every page listed in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			application, err := app.New(cfg, logger, opts.root)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}

func newPageCmd(opts *rootOptions) *cobra.Command {
	var page config.PageConfig
	var only string

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Render a single page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if only != "" {
				page.Initializers = splitList(only)
			}

			application, err := app.New(cfg, logger, opts.root)
			if err != nil {
				return err
			}
			return application.RenderPages(cmd.Context(), []config.PageConfig{page})
		},
	}

	cmd.Flags().StringVar(&page.Input, "in", "", "page source")
	cmd.Flags().StringVar(&page.Output, "out", "", "rendered page destination")
	cmd.Flags().StringVar(&page.URL, "url", "", "page location, e.g. article.html?id=42")
	cmd.Flags().StringVar(&only, "only", "", "comma separated sections to run (default all)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the page sections that can be rendered",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range pages.DefaultRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
