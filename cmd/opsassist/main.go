package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/cli"
	"github.com/alexanderramin/opsassist/internal/cli/formatter"
	"github.com/alexanderramin/opsassist/internal/config"
	"github.com/alexanderramin/opsassist/internal/logging"
	"github.com/alexanderramin/opsassist/internal/planner"
	"github.com/alexanderramin/opsassist/internal/schema"
	"github.com/alexanderramin/opsassist/internal/server"
	"github.com/alexanderramin/opsassist/internal/service"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
	"github.com/mattn/go-isatty"
)

func main() {
	err := run()
	if err == nil {
		return
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	observer := service.NewSlogUseCaseObserver(logger)

	if !isTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	// The ledger is optional: without it records are still written to disk.
	var idx *audit.Index
	if cfg.Audit.Enabled && cfg.Audit.IndexEnabled {
		idx, err = audit.OpenIndex(cfg.Audit.ResolvedIndexPath())
		if err != nil {
			logger.Warn("audit_index_unavailable", "path", cfg.Audit.ResolvedIndexPath(), "error", err)
		} else {
			defer idx.Close()
		}
	}

	limits := service.DraftLimits{DefaultTopN: cfg.Drafting.DefaultTopN, MaxTopN: cfg.Drafting.MaxTopN}
	builder := planner.NewBuilder()
	planningWith := func(engine *sqldraft.Engine) func(string) service.PlanningService {
		return func(auditDir string) service.PlanningService {
			var recorder *audit.Recorder
			if auditDir != "" {
				opts := []audit.RecorderOption{audit.WithLogger(logger)}
				if idx != nil {
					opts = append(opts, audit.WithIndex(idx))
				}
				recorder = audit.NewRecorder(audit.NewFileWriter(auditDir), opts...)
			}
			return service.NewPlanningService(engine, builder, recorder, limits, observer)
		}
	}
	audits := service.NewAuditService(idx, observer)

	app := &cli.App{
		Planning:     planningWith(sqldraft.NewEngine(schema.FileLoader{})),
		Audits:       audits,
		AuditDir:     cfg.Audit.Dir,
		AuditEnabled: cfg.Audit.Enabled,
		DefaultAddr:  cfg.Server.Addr,
		IsInteractive: func() bool {
			return isTerminal(os.Stdin.Fd())
		},
		Serve: func(ctx context.Context, addr string) error {
			return serve(ctx, cfg, addr, logger, planningWith, audits)
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// serve runs the HTTP shell. Long-running processes cache parsed schemas and
// drop entries when their files change.
func serve(
	ctx context.Context,
	cfg config.Config,
	addr string,
	logger *slog.Logger,
	planningWith func(*sqldraft.Engine) func(string) service.PlanningService,
	audits service.AuditService,
) error {
	var loader schema.Loader = schema.FileLoader{}
	if cfg.Server.WatchSchemas {
		cache, err := schema.NewCache(schema.FileLoader{}, logger)
		if err != nil {
			return err
		}
		defer cache.Close()
		loader = cache
	}

	auditDir := ""
	if cfg.Audit.Enabled {
		auditDir = cfg.Audit.Dir
	}
	planning := planningWith(sqldraft.NewEngine(loader))(auditDir)

	serverCfg := cfg.Server
	serverCfg.Addr = addr
	return server.New(serverCfg, planning, audits, logger).Run(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
