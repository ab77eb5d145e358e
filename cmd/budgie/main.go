// Command budgie is a personal budget tracker for the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	in      io.Reader
	cfgFile string
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(context.Background(), "Changes are saved after each completed step.")

	if err := newRootCmd(os.Stdin).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader) *cobra.Command {
	a := &app{v: viper.New(), in: in}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "budgie",
		Short: "💰 Personal budget tracker",
		Long: `budgie records income and expenses per month, watches category limits and
month balances, and raises alerts when something needs your attention.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/budgie/config.yaml)")
	flags.String("data-dir", "", "data directory (default: $HOME/.local/share/budgie)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")

	_ = a.v.BindPFlag("data.dir", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(
		initCmd(a),
		categoriesCmd(a),
		incomeCmd(a),
		expenseCmd(a),
		entriesCmd(a),
		budgetCmd(a),
		reportCmd(a),
		alertsCmd(a),
		importCmd(a),
		exportCmd(a),
		checkpointCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "budgie"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("BUDGIE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level, err := common.ParseLevel(a.v.GetString("logging.level"))
	if err != nil {
		return err
	}
	if err := common.SetupLogger(level, a.v.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "budgie %s\n", version)
		},
	}
}
