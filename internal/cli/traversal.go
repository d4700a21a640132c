package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/dirscan/internal/config"
	"github.com/temirov/dirscan/internal/output"
	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/types"
)

const (
	exclusionFlagName       = "e"
	exclusionFileFlagName   = "exclude-from"
	recursiveFlagName       = "recursive"
	statsFlagName           = "stats"
	foldersFlagName         = "folders"
	extensionsFlagName      = "extensions"
	gitignoreFlagName       = "gitignore"
	formatFlagName          = "format"
	summaryFlagName         = "summary"
	clipboardFlagName       = "clipboard"
	configFlagName          = "config"
	defaultPath             = "."
	defaultFormat           = types.FormatRaw
	exclusionFlagUsage      = "exclude paths matching this case-insensitive regular expression (repeatable)"
	exclusionFileFlagUsage  = "read exclusion patterns from a file, one per line (repeatable)"
	recursiveFlagUsage      = "descend into subdirectories"
	statsFlagUsage          = "include file metadata"
	foldersFlagUsage        = "include directories in the output"
	extensionsFlagUsage     = "split file names into title and extension"
	gitignoreFlagUsage      = "apply the .gitignore rules found at each root"
	formatFlagUsage         = "output format: raw, json, xml, or yaml"
	summaryFlagUsage        = "print a summary line after raw output"
	clipboardFlagUsage      = "copy the rendered output to the clipboard"
	configFlagUsage         = "configuration file to use instead of ./.dirscan.yaml"
	logMessageSkippingRoot  = "skipping root"
	logMessageClipboardCopy = "copied output to clipboard"

	invalidFormatMessage        = "invalid format value '%s'"
	errorLoadConfigFormat       = "load configuration: %w"
	errorExclusionFileFormat    = "load exclusion patterns: %w"
	errorGitIgnoreFormat        = "load .gitignore for %s: %w"
	errorClipboardFormat        = "copy output to clipboard: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorNoValidPaths           = "no valid paths"
	errorDescribeRootFileFormat = "describe %s: %w"
)

// traversalFlags stores the flag values of the list and tree commands.
type traversalFlags struct {
	exclusionPatterns []string
	exclusionFiles    []string
	recursive         bool
	stats             bool
	folders           bool
	extensions        bool
	gitignore         bool
	summary           bool
	clipboard         bool
	format            string
	configPath        string
}

// traversalSettings is the outcome of merging defaults, configuration and flags.
type traversalSettings struct {
	options   traverse.Options
	format    string
	gitignore bool
	summary   bool
	clipboard bool
}

// addTraversalFlags registers the flags shared by list and tree.
func addTraversalFlags(command *cobra.Command, flags *traversalFlags, mode traverse.Mode) {
	flagSet := command.Flags()
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagUsage)
	flagSet.StringArrayVar(&flags.exclusionFiles, exclusionFileFlagName, nil, exclusionFileFlagUsage)
	flagSet.StringVar(&flags.format, formatFlagName, defaultFormat, formatFlagUsage)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagUsage)
	registerToggleFlag(flagSet, &flags.recursive, recursiveFlagName, true, recursiveFlagUsage)
	registerToggleFlag(flagSet, &flags.stats, statsFlagName, false, statsFlagUsage)
	registerToggleFlag(flagSet, &flags.folders, foldersFlagName, defaultFolders(mode), foldersFlagUsage)
	registerToggleFlag(flagSet, &flags.extensions, extensionsFlagName, false, extensionsFlagUsage)
	registerToggleFlag(flagSet, &flags.gitignore, gitignoreFlagName, false, gitignoreFlagUsage)
	registerToggleFlag(flagSet, &flags.summary, summaryFlagName, false, summaryFlagUsage)
	registerToggleFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagUsage)
}

// defaultFolders reports whether directories are reported when nothing configures it.
// The tree is only useful with its directories, the list defaults to files only.
func defaultFolders(mode traverse.Mode) bool {
	return mode == traverse.ModeTree
}

// resolveTraversalSettings applies built-in defaults, then configuration, then explicitly set flags.
func resolveTraversalSettings(command *cobra.Command, mode traverse.Mode, flags traversalFlags, configuration config.CommandConfiguration) (traversalSettings, error) {
	options := traverse.DefaultOptions()
	options.Mode = mode
	options.IgnoreFolders = !defaultFolders(mode)
	configuration.ApplyTo(&options)

	changed := command.Flags().Changed
	if changed(recursiveFlagName) {
		options.Recursive = flags.recursive
	}
	if changed(statsFlagName) {
		options.Stats = flags.stats
	}
	if changed(foldersFlagName) {
		options.IgnoreFolders = !flags.folders
	}
	if changed(extensionsFlagName) {
		options.Extensions = flags.extensions
	}

	var filePatterns []string
	for _, exclusionFile := range flags.exclusionFiles {
		patterns, loadError := config.LoadExclusionFilePatterns(exclusionFile)
		if loadError != nil {
			return traversalSettings{}, fmt.Errorf(errorExclusionFileFormat, loadError)
		}
		filePatterns = append(filePatterns, patterns...)
	}
	options.Exclude = config.CombineExclusionPatterns(options.Exclude, flags.exclusionPatterns, filePatterns)

	settings := traversalSettings{
		options:   options,
		format:    defaultFormat,
		gitignore: config.BoolOrDefault(configuration.Gitignore, false),
		summary:   config.BoolOrDefault(configuration.Summary, false),
		clipboard: config.BoolOrDefault(configuration.Clipboard, false),
	}
	if configuration.Format != "" {
		settings.format = configuration.Format
	}
	if changed(formatFlagName) {
		settings.format = flags.format
	}
	if changed(gitignoreFlagName) {
		settings.gitignore = flags.gitignore
	}
	if changed(summaryFlagName) {
		settings.summary = flags.summary
	}
	if changed(clipboardFlagName) {
		settings.clipboard = flags.clipboard
	}

	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if !types.IsSupportedFormat(settings.format) {
		return traversalSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	return settings, nil
}

// runTraversal executes the list or tree command for the given paths.
// Roots that fail are logged and skipped; the command fails only when no root succeeded.
func (app *application) runTraversal(command *cobra.Command, mode traverse.Mode, flags traversalFlags, paths []string) error {
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: flags.configPath})
	if configurationError != nil {
		return fmt.Errorf(errorLoadConfigFormat, configurationError)
	}
	commandConfiguration := applicationConfiguration.List
	if commandNameForMode(mode) == types.CommandTree {
		commandConfiguration = applicationConfiguration.Tree
	}

	settings, settingsError := resolveTraversalSettings(command, mode, flags, commandConfiguration)
	if settingsError != nil {
		return settingsError
	}

	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(app.fileSystem, paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	var copied bytes.Buffer
	var destination io.Writer = app.output
	if settings.clipboard {
		destination = io.MultiWriter(app.output, &copied)
	}

	renderer, rendererError := output.NewStreamRenderer(settings.format, destination, len(validatedPaths), settings.summary)
	if rendererError != nil {
		return rendererError
	}

	traverser := traverse.New(app.fileSystem, app.logger)
	var firstRootError error
	producedResults := 0
	producer := func(streamCtx context.Context, results chan<- output.Result) error {
		for _, root := range validatedPaths {
			result, rootError := app.traverseRoot(traverser, root, settings)
			if rootError != nil {
				if errors.Is(rootError, traverse.ErrInvalidPattern) {
					return rootError
				}
				app.logger.Warn(logMessageSkippingRoot, zap.String("root", root.AbsolutePath), zap.Error(rootError))
				if firstRootError == nil {
					firstRootError = rootError
				}
				continue
			}
			producedResults++
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case results <- result:
			}
		}
		return nil
	}

	if streamError := dispatchStream(context.Background(), producer, renderer.Handle); streamError != nil {
		return streamError
	}
	if producedResults == 0 && firstRootError != nil {
		return firstRootError
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}

	if settings.clipboard {
		if copyError := app.copier.Copy(copied.String()); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
		app.logger.Debug(logMessageClipboardCopy, zap.Int("bytes", copied.Len()))
	}
	return nil
}

// traverseRoot produces the result of one validated root.
// A file root yields its own descriptor as the only entry.
func (app *application) traverseRoot(traverser *traverse.Traverser, root types.ValidatedPath, settings traversalSettings) (output.Result, error) {
	result := output.Result{Root: root.AbsolutePath, Mode: settings.options.Mode}

	if !root.IsDir {
		entry, describeError := traverser.Describe(root.AbsolutePath, settings.options)
		if describeError != nil {
			return output.Result{}, fmt.Errorf(errorDescribeRootFileFormat, root.AbsolutePath, describeError)
		}
		result.Entries = []traverse.Entry{entry}
		return result, nil
	}

	options := settings.options
	if settings.gitignore {
		rules, rulesError := config.LoadGitIgnoreRules(root.AbsolutePath)
		if rulesError != nil {
			return output.Result{}, fmt.Errorf(errorGitIgnoreFormat, root.AbsolutePath, rulesError)
		}
		options.IgnoreRules = rules
	}

	entries, traversalError := traverser.Traverse(root.AbsolutePath, options)
	if traversalError != nil {
		return output.Result{}, traversalError
	}
	result.Entries = entries
	return result, nil
}

// dispatchStream runs produce and consume concurrently, handing results over an unbuffered channel.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- output.Result) error,
	consume func(output.Result) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	results := make(chan output.Result)

	group.Go(func() error {
		defer close(results)
		return produce(streamCtx, results)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case result, ok := <-results:
				if !ok {
					return nil
				}
				if err := consume(result); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form, validates their existence on fileSystem,
// and drops duplicates while keeping the first occurrence.
func resolveAndValidatePaths(fileSystem afero.Fs, inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := fileSystem.Stat(cleanPath)
		if fileStatusError != nil {
			if errors.Is(fileStatusError, fs.ErrNotExist) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
