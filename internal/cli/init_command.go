package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/dirscan/internal/config"
	"github.com/temirov/dirscan/internal/types"
)

const (
	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.dirscan.yaml, or to ~/.dirscan/config.yaml with --global.
An existing file is kept unless --force is given.`
	globalFlagName        = "global"
	globalFlagUsage       = "write the global configuration instead of the local one"
	forceFlagName         = "force"
	forceFlagUsage        = "overwrite an existing configuration file"
	initWrittenTemplate   = "configuration written to %s\n"
	errorInitializeFormat = "initialize configuration: %w"
)

// createInitCommand returns the init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	command := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initializeError != nil {
				return fmt.Errorf(errorInitializeFormat, initializeError)
			}
			_, writeError := fmt.Fprintf(app.output, initWrittenTemplate, writtenPath)
			return writeError
		},
	}
	registerToggleFlag(command.Flags(), &global, globalFlagName, false, globalFlagUsage)
	registerToggleFlag(command.Flags(), &force, forceFlagName, false, forceFlagUsage)
	return command
}
