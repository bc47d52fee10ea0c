package loader

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(source string, data []byte) (map[string]any, error) {
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return nil, perr
	}
	widenInts(settings)
	return settings, nil
}

// widenInts rewrites yaml's int values as int64, the type go-toml
// produces, so decoding does not depend on the file format.
func widenInts(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case map[string]any:
		for k, item := range val {
			val[k] = widenInts(item)
		}
	case []any:
		for i, item := range val {
			val[i] = widenInts(item)
		}
	}
	return v
}
