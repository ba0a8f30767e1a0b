// Package cli implements the pb-extract command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pbextract/internal/logger"
	"pbextract/internal/pipeline"
	"pbextract/internal/render"
	"pbextract/pkg/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Env is the process environment the commands run in.
type Env struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
}

// OSEnv returns the environment of the running process.
func OSEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr, LookupEnv: os.LookupEnv}
}

// app holds the state shared by the commands of one invocation.
type app struct {
	env Env
	cfg config.AppConfig

	configPath string
	verbose    bool
	quiet      bool
}

// outputFlags are shared by every command that writes declarations.
type outputFlags struct {
	file          string
	json          string
	module        string
	excludeSystem bool
}

func (o *outputFlags) register(cmd *cobra.Command, withFile, withExclude bool) {
	if withFile {
		cmd.Flags().StringVarP(&o.file, "output", "o", "", "output d.ts file (default \""+config.DefaultOutput+"\")")
	}
	cmd.Flags().StringVar(&o.json, "json", "", "also write the collection index as JSON to this file")
	cmd.Flags().StringVar(&o.module, "module", "", "wrap declarations in declare module '<name>'")
	if withExclude {
		cmd.Flags().BoolVar(&o.excludeSystem, "exclude-system", false, "leave out system collections (names starting with _)")
	}
}

// resolve merges flags with the config file; flags win.
func (o *outputFlags) resolve(cmd *cobra.Command, cfg config.OutputConfig) pipeline.Output {
	out := pipeline.Output{
		File:          firstOf(o.file, cfg.File, config.DefaultOutput),
		JSON:          firstOf(o.json, cfg.JSON),
		Render:        render.Options{Module: firstOf(o.module, cfg.Module)},
		ExcludeSystem: cfg.ExcludeSystem,
	}
	if cmd.Flags().Changed("exclude-system") {
		out.ExcludeSystem = o.excludeSystem
	}
	return out
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NewRootCmd builds the command tree.
func NewRootCmd(env Env) *cobra.Command {
	a := &app{env: env}

	root := &cobra.Command{
		Use:   "pb-extract",
		Short: "Generate TypeScript declarations from a PocketBase schema",
		Long: `pb-extract reads the collection definitions of a PocketBase backend and
writes a d.ts file with one interface per collection.

Examples:
  pb-extract extract pb_data/data.db src/pocketbase.d.ts
  pb-extract dump http://127.0.0.1:8090 --user admin@example.com -o src/pocketbase.d.ts
  pb-extract sql --driver postgres --dsn postgres://pb:pb@localhost/pb`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(a.extractCmd(), a.dumpCmd(), a.sqlCmd(), a.versionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	logger.SetOutput(a.env.Stderr)
	switch {
	case a.verbose:
		logger.SetLevel(logger.LevelDebug)
	case a.quiet:
		logger.SetLevel(logger.LevelError)
	default:
		logger.SetLevel(logger.LevelInfo)
	}

	cfg, err := config.LoadOptional(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, env Env) int {
	root := NewRootCmd(env)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
