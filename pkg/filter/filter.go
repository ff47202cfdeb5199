// Package filter implements the neighbor admission/boundary/skip decision
// chain (C5): given a freshly parsed neighbor and its parent's depth, decide
// whether the discovery engine should queue it, skip it, or mark it a
// boundary device (spec §4.5).
//
// Modeled as an ordered-predicate chain, the same shape as the teacher's
// exclusion-list checks that gate whether a newly discovered target is
// worth scanning further (pkg/discovery/snmp_polling.go's expandSeeds /
// exclusion filtering before a target is queued).
package filter

import (
	"net"
	"path/filepath"
	"strings"

	"github.com/lumatek/netwalk/pkg/model"
)

// Decision is the outcome of evaluating one neighbor.
type Decision int

const (
	Admit Decision = iota
	Skip
	Boundary
)

// Config is the immutable exclusion policy (spec §6 [exclusions], [discovery] max_depth).
type Config struct {
	MaxDepth            int
	ExcludePlatforms    []string
	ExcludeCapabilities []string
	ExcludeHostnames    []string
	ExcludeCIDRs        []string
}

type Engine struct {
	cfg  Config
	nets []*net.IPNet
}

// NewEngine parses the configured CIDR exclusions up front so Decide never
// fails at evaluation time.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}

	for _, cidr := range cfg.ExcludeCIDRs {
		if _, ipnet, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			e.nets = append(e.nets, ipnet)
		}
	}

	return e
}

// Decide applies the seven-step admission order of spec §4.5. visitedIPs and
// visitedNames are consulted read-only; the caller (the discovery engine,
// holding its mutex) is responsible for the atomic check-and-insert.
func (e *Engine) Decide(n model.Neighbor, cleanedHostname string, parentDepth int, visitedIPs, visitedNames map[string]struct{}) Decision {
	if parentDepth+1 > e.cfg.MaxDepth {
		return Boundary
	}

	if n.RemoteIP == "" {
		return Skip
	}

	if _, ok := visitedIPs[n.RemoteIP]; ok {
		return Skip
	}

	if _, ok := visitedNames[cleanedHostname]; ok {
		return Skip
	}

	if matchesAny(e.cfg.ExcludePlatforms, string(n.RemotePlatform)) {
		return Skip
	}

	if capabilitiesMatch(e.cfg.ExcludeCapabilities, n.RemoteCapabilities) {
		return Skip
	}

	if matchesAny(e.cfg.ExcludeHostnames, cleanedHostname) {
		return Skip
	}

	if e.ipExcluded(n.RemoteIP) {
		return Skip
	}

	return Admit
}

func matchesAny(patterns []string, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))

	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}

		if ok, _ := filepath.Match(p, value); ok {
			return true
		}
	}

	return false
}

func capabilitiesMatch(patterns []string, caps map[string]struct{}) bool {
	for cap := range caps {
		if matchesAny(patterns, cap) {
			return true
		}
	}

	return false
}

func (e *Engine) ipExcluded(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, n := range e.nets {
		if n.Contains(parsed) {
			return true
		}
	}

	return false
}
