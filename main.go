package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/litetable/litetable-htable/internal/app"
	"github.com/litetable/litetable-htable/internal/config"
	"github.com/litetable/litetable-htable/internal/operations"
	"github.com/litetable/litetable-htable/internal/reaper"
	"github.com/litetable/litetable-htable/internal/server"
	"github.com/litetable/litetable-htable/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "htable",
	Short:         "HBase style scans over a LiteTable store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to htable.conf (default ~/.litetable/htable.conf)")
	rootCmd.AddCommand(serveCmd(), scanCmd(), putCmd(), createFamilyCmd(), deleteCmd(), execCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.NewConfig()
	}
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run storage maintenance, the expired row reaper and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			application, err := initialize(cfg)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}

func initialize(cfg *config.Config) (*app.App, error) {
	var deps []app.Dependency

	diskStorage, err := storage.New(&storage.Config{
		RootDir:    cfg.DataDir,
		GCInterval: cfg.GCInterval,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, diskStorage)

	reaperGC, err := reaper.New(&reaper.Config{
		Path:       cfg.DataDir,
		Storage:    diskStorage,
		GCInterval: cfg.ReaperInterval,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, reaperGC)

	srv, err := server.New(&server.Config{
		Address: cfg.MetricsAddress,
		Port:    cfg.MetricsPort,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	return app.CreateApp(&app.Config{
		ServiceName: "LiteTable HTable",
		StopTimeout: 30 * time.Second,
	}, deps...)
}

// withOperations opens the store for a one shot command. Scans record expired rows into a
// reaper that writes them to the GC log for the next serve to clean up.
func withOperations(run func(ops *operations.Manager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	diskStorage, err := storage.New(&storage.Config{
		RootDir:    cfg.DataDir,
		GCInterval: cfg.GCInterval,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := diskStorage.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	reaperGC, err := reaper.New(&reaper.Config{
		Path:       cfg.DataDir,
		Storage:    diskStorage,
		GCInterval: cfg.ReaperInterval,
	})
	if err != nil {
		return err
	}
	if err = reaperGC.Start(); err != nil {
		return err
	}
	defer func() {
		if err := reaperGC.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop reaper")
		}
	}()

	ops, err := operations.New(&operations.Config{
		Storage:              diskStorage,
		GarbageCollector:     reaperGC,
		DescriptorCacheSize:  cfg.DescriptorCacheSize,
		DefaultBatchSize:     cfg.DefaultBatchSize,
		DefaultMaxResultSize: cfg.DefaultMaxResultSize,
	})
	if err != nil {
		return err
	}
	return run(ops)
}

// runCommand executes verb with the query built from args and prints the JSON response.
func runCommand(ctx context.Context, verb string, args []string) error {
	return withOperations(func(ops *operations.Manager) error {
		out, err := ops.Run(ctx, []byte(verb+" "+strings.Join(args, " ")))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "scan family=<cf> [key=<row>|start=<row> stop=<row>|prefix=<p>|regex=<re>] [options]",
		Short:   "Scan a column family and print the rows as JSON",
		Example: "htable scan family=cf prefix=user%3A versions=3 filter=KeyOnlyFilter%28%29",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "READ", args)
		},
	}
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "put family=<cf> key=<row> qualifier=<q> value=<v> [qualifier=<q> value=<v>...] [ts=<ms>]",
		Short:   "Write cells to one row",
		Example: "htable put family=cf key=user:1 qualifier=name value=ann",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "WRITE", args)
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete family=<cf> key=<row> [qualifier=<q>...] [ts=<ms>]",
		Short:   "Delete cells from one row",
		Example: "htable delete family=cf key=user:1 qualifier=name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "DELETE", args)
		},
	}
}

func createFamilyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create-family family=<cf>[,<cf>...] [ttl=<seconds>] [versions=<n>]",
		Short:   "Create or update column families",
		Example: "htable create-family family=cf ttl=86400 versions=3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), "CREATE", args)
		},
	}
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exec <command>",
		Short:   "Run a raw READ, WRITE, DELETE or CREATE command",
		Example: `htable exec "READ family=cf key=user:1"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOperations(func(ops *operations.Manager) error {
				out, err := ops.Run(cmd.Context(), []byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			})
		},
	}
}
