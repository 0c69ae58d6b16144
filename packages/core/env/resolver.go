package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/httpie/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{...}} references. Unknown references are left untouched
// and reported through the warn function.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

// Resolve expands every reference in input. A builtin function that fails
// makes the whole expansion fail.
func (r *Resolver) Resolve(input string) (string, error) {
	var firstErr error
	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if name, ok := strings.CutPrefix(expr, "$"); ok {
			if val, found := os.LookupEnv(name); found {
				return val
			}
			r.warn("unresolved environment variable: $%s", name)
			return match
		}

		if strings.Contains(expr, "(") {
			result, ok, err := r.funcs.Call(expr)
			if err != nil {
				firstErr = err
				return match
			}
			if ok {
				return result
			}
			r.warn("unresolved function call: %s", expr)
			return match
		}

		if val, ok := r.GetVariable(expr); ok {
			return fmt.Sprintf("%v", val)
		}

		r.warn("unresolved variable: %s", expr)
		return match
	})
	if firstErr != nil {
		return "", fmt.Errorf("resolving %q: %w", input, firstErr)
	}
	return out, nil
}

// ResolveAll resolves every value of a map, keys are kept as-is.
func (r *Resolver) ResolveAll(values map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(values))
	for k, v := range values {
		resolved, err := r.Resolve(v)
		if err != nil {
			return nil, err
		}
		result[k] = resolved
	}
	return result, nil
}

// GetUnresolvedVariables lists plain variable references in input that have
// no value. Environment and function references are not included.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if strings.HasPrefix(expr, "$") || strings.Contains(expr, "(") {
			continue
		}
		if _, ok := r.GetVariable(expr); !ok {
			missing = append(missing, expr)
		}
	}
	return missing
}
