package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/render/calendar"
	"github.com/harrisonrobin/gantta/pkg/render/csvexport"
	"github.com/harrisonrobin/gantta/pkg/render/pdf"
	"github.com/harrisonrobin/gantta/pkg/render/report"
	"github.com/harrisonrobin/gantta/pkg/render/script"
	"github.com/harrisonrobin/gantta/pkg/render/svg"
	"github.com/harrisonrobin/gantta/pkg/runner"
)

type renderOptions struct {
	outputDir  string
	formats    []string
	title      string
	byCategory bool
}

func renderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a task table in one or more formats",
		Example: `  gantta render plan.xlsx
  gantta render plan.csv -f svg,pdf --by-category -o out/`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output") {
				opts.outputDir = cfg.OutputDir
			}
			if !cmd.Flags().Changed("format") {
				opts.formats = cfg.Formats
			}
			if !cmd.Flags().Changed("title") {
				opts.title = cfg.Title
			}
			if err := checkFormats(opts.formats); err != nil {
				return err
			}

			log := a.logger()
			ts, _, err := loadTasks(args[0], cfg, log)
			if err != nil {
				return err
			}
			bundle, err := render.Build(cmd.Context(), ts, render.Options{Title: opts.title, Layout: cfg.Layout})
			if err != nil {
				return err
			}

			r := runner.New(cfg.Python, cfg.ScriptTimeout, log)
			results := render.RenderAll(cmd.Context(), bundle, adapters(opts, bundle, r))
			return writeResults(cmd, opts.outputDir, results, log)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: "+strings.Join(config.Formats, ","))
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title")
	cmd.Flags().BoolVar(&opts.byCategory, "by-category", false, "also write one SVG per category")
	return cmd
}

func checkFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("%w: no output format", ErrUsage)
	}
	for _, f := range formats {
		if !slices.Contains(config.Formats, f) {
			return fmt.Errorf("%w: unknown format %q (want one of %s)", ErrUsage, f, strings.Join(config.Formats, ", "))
		}
	}
	return nil
}

// adapters returns the adapters of formats, without duplicates, in the order given.
func adapters(opts renderOptions, b *render.Bundle, r *runner.Runner) []render.Adapter {
	var out []render.Adapter
	seen := make(map[string]bool)
	for _, f := range opts.formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		switch f {
		case "svg":
			out = append(out, svg.Adapter{})
			if opts.byCategory {
				for _, v := range b.Categories {
					out = append(out, svg.ForCategory(v.Category))
				}
			}
		case "html":
			out = append(out, report.Adapter{})
		case "pdf":
			out = append(out, pdf.Adapter{})
		case "csv":
			out = append(out, csvexport.Adapter{})
		case "deck-script":
			out = append(out, script.DeckAdapter{})
		case "doc-script":
			out = append(out, script.DocumentAdapter{})
		case "pptx":
			out = append(out, render.NewExternal("pptx", script.DeckAdapter{}, r, "pptx", render.MediaPPTX))
		case "docx":
			out = append(out, render.NewExternal("docx", script.DocumentAdapter{}, r, "docx", render.MediaDOCX))
		case "calendar":
			out = append(out, calendar.Adapter{})
		}
	}
	return out
}

// writeResults stores every output under dir. Unavailable features are reported as
// warnings and only make the command fail when nothing else went wrong.
func writeResults(cmd *cobra.Command, dir string, results []render.Result, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var failed, unavailable []error
	for _, res := range results {
		if res.Err != nil {
			err := fmt.Errorf("%s: %w", res.Adapter, res.Err)
			if errors.Is(res.Err, runner.ErrUnavailable) {
				log.Warn("output skipped", zap.String("format", res.Adapter), zap.Error(res.Err))
				unavailable = append(unavailable, err)
			} else {
				log.Error("render failed", zap.String("format", res.Adapter), zap.Error(res.Err))
				failed = append(failed, err)
			}
			continue
		}

		path := filepath.Join(dir, res.Output.Name)
		if err := os.WriteFile(path, res.Output.Data, 0o644); err != nil {
			failed = append(failed, fmt.Errorf("%s: write %s: %w", res.Adapter, path, err))
			continue
		}
		log.Debug("wrote output", zap.String("format", res.Adapter), zap.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s (%s)\n", res.Adapter, path, humanize.Bytes(uint64(len(res.Output.Data))))
	}

	if len(failed) > 0 {
		return errors.Join(failed...)
	}
	return errors.Join(unavailable...)
}
