package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/granchi/hollywood/pkg/ports"
)

// Mask replaces the values of masked keys.
const Mask = "***"

type maskMiddleware struct {
	next     ports.PreferenceStore
	patterns []*regexp.Regexp
}

// NewMaskMiddleware creates a middleware that masks, before saving, the
// values of keys matching any of the patterns. Nested maps are masked too.
//
// Masking is one-way: the backend never sees the original value, so a
// masked key loads back as Mask. Use it for values that must not be
// persisted at all, and encryption for values that must be read back.
func NewMaskMiddleware(patterns ...string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.PreferenceStore) ports.PreferenceStore {
		return &maskMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *maskMiddleware) Save(ctx context.Context, namespace string, values map[string]any) error {
	// The caller keeps its own map untouched.
	masked := deepCopyMap(values)
	maskMap(masked, m.patterns)
	return m.next.Save(ctx, namespace, masked)
}

func (m *maskMiddleware) Load(ctx context.Context, namespace string) (map[string]any, error) {
	return m.next.Load(ctx, namespace)
}

func (m *maskMiddleware) Delete(ctx context.Context, namespace string) error {
	return m.next.Delete(ctx, namespace)
}

func (m *maskMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
