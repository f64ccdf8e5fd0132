package rest

import (
	"log/slog"
	"net/url"
	"strconv"
)

// Client flags are tunables the client script reads from the page. Each query
// parameter maps to a short external key plus a parser; the table is fixed at
// startup and iterated directly, no runtime type introspection.
type flagSpec struct {
	key   string
	parse func(string) (any, error)
}

var clientFlags = map[string]flagSpec{
	"enableDiagnostics":  {key: "ed", parse: parseBoolFlag},
	"typingIndicator":    {key: "ti", parse: parseBoolFlag},
	"renderDelayMs":      {key: "rd", parse: parseIntFlag},
	"maxSnapshotOps":     {key: "ms", parse: parseIntFlag},
	"scrollAcceleration": {key: "sa", parse: parseFloatFlag},
	"uiTheme":            {key: "th", parse: parseStringFlag},
}

// buildClientFlags collects recognized flags from the query string. Unknown
// parameters and malformed values are skipped.
func buildClientFlags(params url.Values) map[string]any {
	flags := map[string]any{}
	for name, values := range params {
		spec, ok := clientFlags[name]
		if !ok || len(values) == 0 {
			continue
		}
		value, err := spec.parse(values[0])
		if err != nil {
			slog.Warn("ignoring malformed client flag",
				slog.String("flag", name),
				slog.String("value", values[0]),
			)
			continue
		}
		flags[spec.key] = value
	}
	return flags
}

func parseBoolFlag(s string) (any, error) {
	return strconv.ParseBool(s)
}

func parseIntFlag(s string) (any, error) {
	return strconv.Atoi(s)
}

func parseFloatFlag(s string) (any, error) {
	return strconv.ParseFloat(s, 64)
}

func parseStringFlag(s string) (any, error) {
	return s, nil
}
