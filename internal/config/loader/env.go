package loader

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvPrefix is the prefix of keycalc environment variables.
const DefaultEnvPrefix = "KEYCALC_"

// aliases are short variable names for common settings. Any other
// prefixed variable maps section_words to section.camelWords.
var aliases = map[string]string{
	"LOG_LEVEL":       "logging.level",
	"LOG_FILE":        "logging.file",
	"HISTORY_LIMIT":   "history.limit",
	"THEME":           "ui.theme",
	"MOUSE":           "ui.mouse",
	"SHOW_HISTORY":    "ui.showHistory",
	"PLUGINS_TIMEOUT": "plugins.timeout",
}

// EnvLoader turns prefixed environment variables into settings.
type EnvLoader struct {
	prefix  string
	aliases map[string]string
	environ func() []string
}

var _ Loader = (*EnvLoader)(nil)

// NewEnvLoader reads the process environment. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderFrom(prefix, nil)
}

// NewEnvLoaderFrom reads a fixed KEY=VALUE list instead of the process
// environment. A nil list means os.Environ.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := &EnvLoader{prefix: prefix, aliases: make(map[string]string, len(aliases)), environ: os.Environ}
	for k, v := range aliases {
		l.aliases[prefix+k] = v
	}
	if environ != nil {
		l.environ = func() []string { return environ }
	}
	return l
}

// AddMapping routes the variable name to a dotted setting path.
func (l *EnvLoader) AddMapping(name, path string) {
	l.aliases[name] = path
}

// Load never fails. An empty value is kept as an empty string.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.aliases[name]
		if !ok {
			path = envPath(strings.TrimPrefix(name, l.prefix))
		}
		insert(settings, strings.Split(path, "."), envValue(value))
	}
	return settings, nil
}

// envPath converts UI_SHOW_HISTORY to ui.showHistory.
func envPath(name string) string {
	section, rest, ok := strings.Cut(strings.ToLower(name), "_")
	if !ok {
		return section
	}

	var b strings.Builder
	for word := range strings.SplitSeq(rest, "_") {
		if word == "" {
			continue
		}
		if b.Len() > 0 {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		b.WriteString(word)
	}
	return section + "." + b.String()
}

// envValue guesses the type of a variable: bool, int64, float64,
// duration, comma separated list, or string.
func envValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if strings.Contains(s, ",") {
		var list []any
		for item := range strings.SplitSeq(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return list
	}
	return s
}

func insert(m map[string]any, keys []string, value any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
}
