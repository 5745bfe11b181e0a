package cli

import (
	"context"
	"fmt"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/baseline"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/configstore"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/gitinfo"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/incidentlog"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/source"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/warehouse"
	"github.com/kintsugidata/kintsugi/internal/application"
	"github.com/kintsugidata/kintsugi/internal/logging"
)

// newRunService wires the outbound adapters for the pipeline rooted at dir.
// With withWarehouse set, a warehouse pool is opened when the configuration
// carries a DSN; the returned cleanup closes it.
func newRunService(ctx context.Context, dir string, withWarehouse bool) (*application.RunService, func(), error) {
	log := logging.New(verbose)
	configs := configstore.New(dir)

	deps := application.RunDeps{
		Source:    source.New(dir),
		Configs:   configs,
		Baselines: baseline.New(),
		Incidents: incidentlog.New(dir),
		Revisions: gitinfo.New(),
		BaseDir:   dir,
		Log:       log,
	}

	cleanup := func() { _ = log.Sync() }
	if withWarehouse {
		cfg, err := configs.Load()
		if err == nil && cfg.WarehouseDSN != "" {
			wh, err := warehouse.Connect(ctx, cfg.WarehouseDSN)
			if err != nil {
				return nil, nil, fmt.Errorf("connecting warehouse: %w", err)
			}
			deps.Warehouse = wh
			cleanup = func() {
				wh.Close()
				_ = log.Sync()
			}
		}
	}

	return application.NewRunService(deps), cleanup, nil
}
