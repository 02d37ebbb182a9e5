// Package featureflags evaluates the FEATURE_FLAGS setting.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// CommentEvents publishes realtime events for comment writes.
	CommentEvents = "comment_events"
)

type rule struct {
	raw     string
	percent int // 0..100; on is 100, off is 0
}

// Manager evaluates feature flags defined in a key=value list such as
// "comment_events=on,new_feed=25%,legacy_ui=off".
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated flag list. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		pct, ok := parsePercent(value)
		if !ok {
			continue
		}
		out[key] = rule{raw: value, percent: pct}
	}

	return &Manager{rules: out}
}

func parsePercent(value string) (int, bool) {
	switch value {
	case "on", "true", "1":
		return 100, true
	case "off", "false", "0":
		return 0, true
	}

	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil {
		return 0, false
	}
	return min(max(pct, 0), 100), true
}

// Enabled reports whether the flag is on for subject. Partial rollouts are
// deterministic per subject and never include subject 0.
func (m *Manager) Enabled(name string, subject uint) bool {
	if m == nil {
		return false
	}

	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch {
	case r.percent <= 0:
		return false
	case r.percent >= 100:
		return true
	case subject == 0:
		return false
	default:
		return rolloutBucket(name, subject) < r.percent
	}
}

// Names returns the configured flag names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns evaluated flag status for one subject.
func (m *Manager) Snapshot(subject uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, subject)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, subject uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), subject)
	return int(h.Sum32() % 100)
}
