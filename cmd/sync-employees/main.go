// Command sync-employees loads the simulated employee roster from a
// numbered names file ("1. Ivan Petrov") into the database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	employeesrepo "roadsaver_backend/internal/employees/repository"
	employeesservice "roadsaver_backend/internal/employees/service"
	"roadsaver_backend/migrations"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/db"
	"roadsaver_backend/platform/logger"

	"github.com/spf13/cobra"
)

type syncOptions struct {
	file   string
	dryRun bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:          "sync-employees",
		Short:        "Sync the simulated employee roster",
		Long:         `Parses a numbered names file and upserts every entry by employee number.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "names.txt", "names file to import, - for stdin")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without writing")
	return cmd
}

func runSync(cmd *cobra.Command, opts *syncOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input, closeInput, err := openInput(cmd, opts.file)
	if err != nil {
		return err
	}
	defer closeInput()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if !opts.dryRun {
		if _, err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
			return err
		}
	}

	svc := employeesservice.New(employeesrepo.New(pool), cfg.GetEmployeeBlacklist(), cfg.GetPhoneRegion(), log)
	res, err := svc.Sync(ctx, input, opts.dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range res.Malformed {
		fmt.Fprintf(out, "skipped line %d: %s (%s)\n", line.Line, line.Text, line.Reason)
	}
	if res.DryRun {
		fmt.Fprintf(out, "parsed %d employees (dry run, nothing written)\n", res.Parsed)
		return nil
	}
	fmt.Fprintf(out, "parsed %d employees, upserted %d\n", res.Parsed, res.Upserted)
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open names file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
