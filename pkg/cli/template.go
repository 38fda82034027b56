package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/table"
)

func templateCmd(a *app) *cobra.Command {
	return tableCmd(a, "template", "Write a starter task table", "gantt-template.csv", table.Template)
}

func demoCmd(a *app) *cobra.Command {
	return tableCmd(a, "demo", "Write a sample task table to try the other commands on", "gantt-demo.csv", table.Demo)
}

func tableCmd(a *app, use, short, defaultName string, build func() model.Table) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". The format follows the extension of the output file: .csv, .xlsx or .org.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatOfName(output)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := table.Write(f, build(), format); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger().Debug("wrote table", zap.String("path", output), zap.String("format", string(format)))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", defaultName, "output file (.csv, .xlsx or .org)")
	return cmd
}

func formatOfName(name string) (table.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return table.CSV, nil
	case ".xlsx":
		return table.XLSX, nil
	case ".org":
		return table.Org, nil
	}
	return "", fmt.Errorf("%w: cannot tell the format of %q, use .csv, .xlsx or .org", ErrUsage, name)
}
