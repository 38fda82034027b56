package cli

import (
	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/normalize"
	"github.com/harrisonrobin/gantta/pkg/table"
)

// loadTasks reads and normalizes the table at path.
func loadTasks(path string, cfg *config.Config, log *zap.Logger) (model.TaskSet, normalize.Report, error) {
	tbl, err := table.Load(path)
	if err != nil {
		return nil, normalize.Report{}, err
	}
	log.Debug("loaded table", zap.String("path", path), zap.Strings("headers", tbl.Headers), zap.Int("rows", len(tbl.Rows)))

	ts, report, err := normalize.New(cfg.Normalize()).Normalize(tbl)
	for reason, n := range report.Dropped {
		log.Info("dropped rows", zap.String("reason", string(reason)), zap.Int("count", n))
	}
	if err != nil {
		return nil, report, err
	}
	return ts, report, nil
}
