package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueValueConstant          = "true"
	toggleFalseValueConstant         = "false"
	toggleTypeConstant               = "bool"
	toggleParseErrorTemplateConstant = "invalid toggle value %q"
	toggleTruePlaceholderConstant    = "YES|no"
	toggleFalsePlaceholderConstant   = "yes|NO"
	toggleUsageTemplateConstant      = "`<%s>` %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"n":     false,
}

// AddToggleFlag registers a boolean flag that accepts yes/no, on/off, and true/false
// values through "--name=value". A bare "--name" sets it to true. The flag reports type
// "bool", so pflag.FlagSet.GetBool reads it.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue

	flagSet.Var((*toggleValue)(target), name, formatToggleUsage(defaultValue, usage))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueValueConstant
}

// ParseToggle interprets a toggle literal case-insensitively. An empty value means true.
func ParseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	return parsedValue, nil
}

func formatToggleUsage(defaultValue bool, usage string) string {
	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplateConstant, placeholder, strings.TrimSpace(usage)))
}

type toggleValue bool

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	*value = toggleValue(parsedValue)
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && bool(*value) {
		return toggleTrueValueConstant
	}
	return toggleFalseValueConstant
}

func (value *toggleValue) Type() string {
	return toggleTypeConstant
}
