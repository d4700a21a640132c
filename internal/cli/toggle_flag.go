package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName        = "bool"
	toggleFlagTrueLiteral     = "true"
	toggleFlagAcceptedListing = "true, false, yes, no, on, off, 1, 0"
	toggleFlagPrefix          = "--"
	toggleFlagTerminator      = "--"

	errorToggleValueFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// separableToggleLiterals may follow a toggle flag as a separate argument.
// Short literals such as y or 1 only bind with "=", so "--stats y" keeps ./y as a path.
var separableToggleLiterals = map[string]struct{}{
	"true":  {},
	"false": {},
	"yes":   {},
	"no":    {},
	"on":    {},
	"off":   {},
}

// parseToggleLiteral maps a textual boolean to its value. An empty literal means true.
func parseToggleLiteral(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlag is a pflag.Value accepting every literal in toggleLiterals.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	value, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, flag.name, toggleFlagAcceptedListing)
	}
	*flag.target = value
	return nil
}

func (flag *toggleFlag) String() string {
	if flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag defines a boolean flag that accepts --name, --name=value and --name value.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleFlagTrueLiteral
}

// normalizeToggleArguments rewrites "--name value" into "--name=value" for toggle
// flags of command and its subcommands when value is one of separableToggleLiterals,
// so that pflag does not treat the value as a path. A path literally named
// true, false, yes, no, on or off must therefore follow "--" or be written as ./name.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == toggleFlagTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName, isLongFlag := strings.CutPrefix(argument, toggleFlagPrefix)
		if isLongFlag && !strings.Contains(flagName, "=") && index+1 < len(arguments) {
			if _, isToggle := toggleNames[flagName]; isToggle {
				if _, separable := separableToggleLiterals[strings.ToLower(arguments[index+1])]; separable {
					normalized = append(normalized, argument+"="+arguments[index+1])
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, names map[string]struct{}) {
	collect := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlag); isToggle {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectToggleNames(child, names)
	}
}
