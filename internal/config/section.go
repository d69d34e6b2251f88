package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// section returns a copy of the mapping stored under prefix, with every
// environment override of a key below it applied on top.
//
// The file tree is the base so empty maps and lists survive; viper's AllKeys
// only lists leaves and would drop them. A missing or null section is empty,
// anything other than a mapping is rejected.
func section(v *viper.Viper, prefix string) (map[string]any, error) {
	var out map[string]any

	switch raw := v.Get(prefix).(type) {
	case nil:
		out = map[string]any{}
	case map[string]any:
		out = copyValue(raw).(map[string]any)
	default:
		return nil, &ValidationError{Fields: map[string]string{
			prefix: fmt.Sprintf("must be a mapping, got %T", raw),
		}}
	}

	lead := prefix + "."
	for _, key := range v.AllKeys() {
		if !strings.HasPrefix(key, lead) {
			continue
		}

		env, ok := os.LookupEnv(strings.ToUpper(envKeyReplacer.Replace(key)))
		if !ok {
			continue
		}

		path := strings.Split(strings.TrimPrefix(key, lead), ".")
		node := out
		for _, part := range path[:len(path)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}

		leaf := path[len(path)-1]
		node[leaf] = coerce(env, node[leaf])
	}

	return out, nil
}

// coerce parses an environment string into the type of the value it replaces,
// so APP_PORT=9090 over a numeric port stays a number. Unparseable input is kept as a string.
func coerce(env string, like any) any {
	switch like.(type) {
	case int, int64:
		if n, err := cast.ToInt64E(env); err == nil {
			return n
		}
	case float64:
		if f, err := cast.ToFloat64E(env); err == nil {
			return f
		}
	case bool:
		if b, err := cast.ToBoolE(env); err == nil {
			return b
		}
	}
	return env
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}
