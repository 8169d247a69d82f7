package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/config"
)

var flagConfigForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
		Long: fmt.Sprintf(`Settings are layered: built-in defaults, then the TOML config file, then
%s* environment variables, then command-line flags.`, config.EnvPrefix),
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(cfg.Redacted())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		// The file may not exist yet, so skip the root's config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE:              runConfigInit,
	}
	initCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if path == "" {
		return errors.New("cannot determine the config path; pass --config")
	}
	if _, err := os.Stat(path); err == nil && !flagConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
