package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	List CommandConfiguration `mapstructure:"list"`
	Tree CommandConfiguration `mapstructure:"tree"`
}

// CommandConfiguration defines the options shared by the list and tree commands.
// Nil pointers mean the value was not configured.
type CommandConfiguration struct {
	Format     string   `mapstructure:"format"`
	Recursive  *bool    `mapstructure:"recursive"`
	Stats      *bool    `mapstructure:"stats"`
	Folders    *bool    `mapstructure:"folders"`
	Extensions *bool    `mapstructure:"extensions"`
	Gitignore  *bool    `mapstructure:"gitignore"`
	Summary    *bool    `mapstructure:"summary"`
	Clipboard  *bool    `mapstructure:"clipboard"`
	Exclude    []string `mapstructure:"exclude"`
}

// LoadApplicationConfiguration loads configuration from the global and local files.
// Values from the local file override the global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localConfig, loadErr := loadConfigurationFromPath(resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath))
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.List.Exclude = utils.DeduplicatePatterns(merged.List.Exclude)
	merged.Tree.Exclude = utils.DeduplicatePatterns(merged.Tree.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.List = result.List.merge(override.List)
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config CommandConfiguration) merge(override CommandConfiguration) CommandConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Recursive != nil {
		result.Recursive = cloneBool(override.Recursive)
	}
	if override.Stats != nil {
		result.Stats = cloneBool(override.Stats)
	}
	if override.Folders != nil {
		result.Folders = cloneBool(override.Folders)
	}
	if override.Extensions != nil {
		result.Extensions = cloneBool(override.Extensions)
	}
	if override.Gitignore != nil {
		result.Gitignore = cloneBool(override.Gitignore)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	return result
}

// ApplyTo overlays the configured traversal values onto options.
// Folders is the inverse of Options.IgnoreFolders.
func (config CommandConfiguration) ApplyTo(options *traverse.Options) {
	if options == nil {
		return
	}
	if config.Recursive != nil {
		options.Recursive = *config.Recursive
	}
	if config.Stats != nil {
		options.Stats = *config.Stats
	}
	if config.Folders != nil {
		options.IgnoreFolders = !*config.Folders
	}
	if config.Extensions != nil {
		options.Extensions = *config.Extensions
	}
	if len(config.Exclude) > 0 {
		options.Exclude = append(append([]string{}, options.Exclude...), config.Exclude...)
	}
}

// BoolOrDefault dereferences value, falling back to defaultValue when unset.
func BoolOrDefault(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
