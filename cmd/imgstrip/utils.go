package imgstrip

import (
	"strings"

	"github.com/redactyl/imgstrip/internal/config"
	"github.com/redactyl/imgstrip/internal/extract"
)

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// matcherFor merges --keys/--prefix with the config files over the defaults.
func matcherFor(s settings, keys, prefix string) extract.Matcher {
	m := extract.DefaultMatcher()
	if k := config.SplitList(pickString(keys, s.local.Keys, s.global.Keys)); len(k) > 0 {
		m.Keys = k
	}
	if p := pickString(prefix, s.local.Prefix, s.global.Prefix); p != "" {
		m.Prefix = p
	}
	return m
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool     { return &v }
