// Package config provides scoped key/value configuration lookup.
//
// Scopes nest: With pushes a scope onto the context, and Lookup walks the
// scopes innermost-first before falling back to the process environment
// (key "taskfx.par.width" maps to the variable TASKFX_PAR_WIDTH). This
// mirrors lexically scoped bindings: a value bound in an inner scope
// shadows the same key bound further out.
package config

import (
	"context"
	"os"
	"strconv"
	"strings"
)

type scopeKey struct{}

type scope struct {
	values map[string]string
	parent *scope
}

// With returns a context whose configuration scope binds the given values
// on top of any scope already present on ctx.
func With(ctx context.Context, values map[string]string) context.Context {
	parent, _ := ctx.Value(scopeKey{}).(*scope)
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return context.WithValue(ctx, scopeKey{}, &scope{values: copied, parent: parent})
}

// Lookup resolves key against the context's scopes, innermost first, then
// against the environment. The second return reports whether the key was
// bound anywhere.
func Lookup(ctx context.Context, key string) (string, bool) {
	for s, _ := ctx.Value(scopeKey{}).(*scope); s != nil; s = s.parent {
		if v, ok := s.values[key]; ok {
			return v, true
		}
	}
	return os.LookupEnv(envName(key))
}

// Int resolves key as an integer, returning def when the key is unbound or
// does not parse.
func Int(ctx context.Context, key string, def int) int {
	raw, ok := Lookup(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, delimiter, "_"))
}
