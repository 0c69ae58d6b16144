package env

import (
	"os"
	"strings"
)

// VarPrefix marks process environment variables that become template
// variables, e.g. HTTPIE_VAR_TOKEN is available as {{TOKEN}}.
const VarPrefix = "HTTPIE_VAR_"

// LoadVariables collects template variables from the process environment
// (VarPrefix) and, when envFile is set, from that file. File entries win.
func LoadVariables(envFile string) (map[string]any, error) {
	sources := []map[string]any{LoadSystemEnv(VarPrefix)}

	if envFile != "" {
		fileVars, err := LoadDotEnv(envFile)
		if err != nil {
			return nil, err
		}
		vars := make(map[string]any, len(fileVars))
		for k, v := range fileVars {
			vars[k] = v
		}
		sources = append(sources, vars)
	}

	return MergeVariables(sources...), nil
}

func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns process environment entries whose names start with
// prefix, keyed by the remainder of the name.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if name, found := strings.CutPrefix(key, prefix); found && name != "" {
			result[name] = value
		}
	}
	return result
}
