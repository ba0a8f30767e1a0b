package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pbextract/internal/db"
	"pbextract/internal/pipeline"
	"pbextract/internal/watch"
	"pbextract/pkg/config"
)

func (a *app) extractCmd() *cobra.Command {
	var (
		out      outputFlags
		watching bool
	)
	cmd := &cobra.Command{
		Use:     "extract <input-file> [output-file]",
		Aliases: []string{"e"},
		Short:   "Extract types from a PocketBase database file",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			o := out.resolve(cmd, a.cfg.Output)
			if len(args) > 1 {
				o.File = args[1]
			}
			generate := func(ctx context.Context) error {
				collections, err := pipeline.FromFile(ctx, input)
				if err != nil {
					return err
				}
				return pipeline.Write(collections, o)
			}
			if watching {
				return watch.Run(cmd.Context(), input, watch.DefaultDebounce, generate)
			}
			return generate(cmd.Context())
		},
	}
	out.register(cmd, false, true)
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "regenerate whenever the database file changes")
	return cmd
}

func (a *app) dumpCmd() *cobra.Command {
	var (
		out            outputFlags
		user, password string
	)
	cmd := &cobra.Command{
		Use:     "dump <server-url>",
		Aliases: []string{"d"},
		Short:   "Extract types from a running PocketBase server",
		Long: `Extract types from a running PocketBase server through its admin API.

Credentials are taken from --user/--password, then from the ` + config.EnvUser + `
and ` + config.EnvPassword + ` environment variables, then from the config file.
System collections are never included.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.cfg.PocketBase.URL
			if len(args) > 0 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("missing server url")
			}
			creds, err := config.ResolveCredentials(
				config.Flag{Value: user, Set: cmd.Flags().Changed("user")},
				config.Flag{Value: password, Set: cmd.Flags().Changed("password")},
				a.cfg.PocketBase,
				a.env.LookupEnv,
			)
			if err != nil {
				return err
			}
			collections, err := pipeline.FromAPI(cmd.Context(), url, creds)
			if err != nil {
				return err
			}
			return pipeline.Write(collections, out.resolve(cmd, a.cfg.Output))
		},
	}
	out.register(cmd, true, false)
	cmd.Flags().StringVarP(&user, "user", "u", "", "admin email (default $"+config.EnvUser+")")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (default $"+config.EnvPassword+")")
	return cmd
}

func (a *app) sqlCmd() *cobra.Command {
	var (
		out         outputFlags
		driver, dsn string
		timeout     int
	)
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Extract types from a collections table reachable through a SQL driver",
		Long: `Extract types from the _collections table of any supported database:
a PocketBase SQLite file or a copy of the table in another database.
Without --driver the database block of the config file is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, source := config.NormalizeDriver(driver), dsn
			if drv == "" {
				var err error
				if drv, source, err = config.BuildDriverAndDSN(a.cfg.Database); err != nil {
					return err
				}
			} else if source == "" {
				return fmt.Errorf("--dsn is required with --driver")
			}
			collections, err := pipeline.FromSQL(cmd.Context(), drv, source, timeout)
			if err != nil {
				return err
			}
			return pipeline.Write(collections, out.resolve(cmd, a.cfg.Output))
		},
	}
	out.register(cmd, true, true)
	cmd.Flags().StringVar(&driver, "driver", "", "database driver (sqlite, postgres, mysql, sqlserver, oracle)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name for --driver")
	cmd.Flags().IntVar(&timeout, "timeout", db.FileTimeout, "connect timeout in seconds")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pb-extract %s (commit: %s)\n", version, commit)
			fmt.Fprintln(cmd.OutOrStdout(), "\nSupported dialects:")
			for _, name := range db.RegisteredDialects() {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
			}
		},
	}
}
