// Package messages holds the message catalog used for every log line.
//
// Each message is addressed by a stable numeric code so operators can grep
// log output by identifier regardless of wording. The tier helpers prefix the
// rendered text with an identifier such as "senzing-5xxx0297I".
package messages

import "fmt"

// ProductID is embedded in every message identifier.
const ProductID = "5xxx"

// Tier codes select the identifier template for a message.
//
//	1xx informational
//	3xx warning
//	5xx user configuration issues
//	7xx internal error
//	9xx debugging
const (
	TierInfo    = 100
	TierWarning = 300
	tierConfig  = 500
	TierError   = 700
	TierDebug   = 900
)

var catalog = map[int]string{
	100: "senzing-" + ProductID + "%04dI",
	292: "Configuration change detected.  Old: %v New: %v",
	293: "For information on warnings and errors, see https://github.com/kula-app/template-cli#errors",
	294: "Version: %v  Updated: %v",
	295: "Sleeping infinitely.",
	296: "Sleeping %v seconds.",
	297: "Enter %v",
	298: "Exit %v",
	299: "%v",
	300: "senzing-" + ProductID + "%04dW",
	301: "Config file %v could not be watched: %v",
	302: "Negative sleep time %v treated as infinite sleep.",
	414: "SENZING_DIR not set. Subcommand %v requires the location of Senzing.",
	499: "%v",
	500: "senzing-" + ProductID + "%04dE",
	694: "SENZING_SUBCOMMAND not set: %v.",
	696: "Bad SENZING_SUBCOMMAND: %v.",
	697: "No processing done.",
	698: "Program terminated with error.",
	699: "%v",
	700: "senzing-" + ProductID + "%04dE",
	899: "%v",
	900: "senzing-" + ProductID + "%04dD",
	901: "Signal %v received.",
	902: "Subcommand: %v  Args: %v",
	998: "Debugging enabled.",
	999: "%v",
}

// Render returns the message for code with args substituted. An unknown code
// yields a placeholder text instead of failing.
func Render(code int, args ...any) string {
	template, ok := catalog[code]
	if !ok {
		return fmt.Sprintf("No message for index %d.", code)
	}
	return fmt.Sprintf(template, args...)
}

func generic(tier, code int, args ...any) string {
	return Render(tier, code) + " " + Render(code, args...)
}

// Info renders code as an informational message.
func Info(code int, args ...any) string { return generic(TierInfo, code, args...) }

// Warning renders code as a warning message.
func Warning(code int, args ...any) string { return generic(TierWarning, code, args...) }

// Error renders code as an error message.
func Error(code int, args ...any) string { return generic(TierError, code, args...) }

// Debug renders code as a debug message.
func Debug(code int, args ...any) string { return generic(TierDebug, code, args...) }
