// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/dirscan/internal/services/clipboard"
	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/types"
	"github.com/temirov/dirscan/internal/utils"
)

const (
	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	verboseFlagName        = "verbose"
	verboseFlagDescription = "log recovered problems such as unreadable metadata"
	versionTemplate        = "dirscan version: %s\n"
	rootUse                = "dirscan"
	rootShortDescription   = "dirscan command line interface"
	rootLongDescription    = `dirscan walks directories and reports what it finds.
The list command prints a flat depth-first listing and the tree command prints nested directories.
Use --format to select raw, json, xml, or yaml output, and --version to print the application version.`

	listUse              = "list [paths...]"
	treeUse              = "tree [paths...]"
	listAlias            = "l"
	treeAlias            = "t"
	listShortDescription = "list entries depth-first (" + listAlias + ")"
	treeShortDescription = "display directory tree (" + treeAlias + ")"

	// listLongDescription provides detailed help for the list command.
	listLongDescription = `List files, and optionally folders, below one or more paths.
A directory is listed after its contents. Use --folders to include directories and --stats for metadata.`
	// listUsageExample demonstrates list command usage.
	listUsageExample = `  # List every file below the current directory
  dirscan list

  # List Go sources with metadata in JSON, skipping vendor
  dirscan list --stats --format json -e vendor -e '_test\.go$' ./cmd`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Display directories and files for one or more paths as a tree.
Use --folders=false to keep only the files of the root level.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree in YAML format
  dirscan tree --format yaml ./internal

  # Respect the root .gitignore
  dirscan tree --gitignore .`
)

// application carries the collaborators shared by every command.
type application struct {
	fileSystem   afero.Fs
	output       io.Writer
	copier       clipboard.Copier
	logger       *zap.Logger
	newLogger    func(zapcore.Level) (*zap.Logger, error)
	versionValue func() string
}

func newApplication() *application {
	return &application{
		fileSystem:   afero.NewOsFs(),
		output:       os.Stdout,
		copier:       clipboard.NewService(),
		newLogger:    utils.NewApplicationLogger,
		versionValue: utils.GetApplicationVersion,
	}
}

// Execute runs the dirscan application.
func Execute() error {
	app := newApplication()
	defer app.syncLogger()
	return app.run(os.Args[1:])
}

func (app *application) run(arguments []string) error {
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

func (app *application) syncLogger() {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	var showVersion bool
	var verbose bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, writeError := fmt.Fprintf(app.output, versionTemplate, app.versionValue())
				return writeError
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if app.logger != nil {
				return nil
			}
			level := zapcore.WarnLevel
			if verbose {
				level = zapcore.DebugLevel
			}
			logger, loggerError := app.newLogger(level)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			app.logger = logger
			return nil
		},
	}
	rootCommand.SetOut(app.output)
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&verbose, verboseFlagName, "v", false, verboseFlagDescription)
	rootCommand.AddCommand(
		app.createTraversalCommand(traverse.ModeList),
		app.createTraversalCommand(traverse.ModeTree),
		app.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createTraversalCommand returns the list or tree subcommand.
func (app *application) createTraversalCommand(mode traverse.Mode) *cobra.Command {
	var flags traversalFlags

	command := &cobra.Command{
		Use:     listUse,
		Aliases: []string{listAlias},
		Short:   listShortDescription,
		Long:    listLongDescription,
		Example: listUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runTraversal(command, mode, flags, arguments)
		},
	}
	if mode == traverse.ModeTree {
		command.Use = treeUse
		command.Aliases = []string{treeAlias}
		command.Short = treeShortDescription
		command.Long = treeLongDescription
		command.Example = treeUsageExample
	}

	addTraversalFlags(command, &flags, mode)
	return command
}

// commandNameForMode maps a traversal mode to its configuration section.
func commandNameForMode(mode traverse.Mode) string {
	if mode == traverse.ModeTree {
		return types.CommandTree
	}
	return types.CommandList
}
