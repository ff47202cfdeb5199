// Package seedfile loads the seed file of spec §6: hostname:ip pairs, one per
// line, with "#" comments and blank lines allowed.
//
// Grounded on the teacher's own cmd/stream-client/main.go
// readAPIKeyFromEnvFile: a bufio.Scanner line loop that trims each line and
// skips blanks and "#"-prefixed comments before parsing it.
package seedfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lumatek/netwalk/pkg/model"
)

// Load reads seed entries from path. Each non-comment, non-blank line must
// be "hostname:ip".
func Load(path string) ([]model.QueueEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seedfile: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads seed entries from r, one per line; Load uses it. The
// --seed-devices inline comma-separated form is handled by ParseInline, which
// shares only the per-entry parseLine.
func Parse(r io.Reader) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry

	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("seedfile: line %d: %w", lineNo, err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("seedfile: read: %w", err)
	}

	return entries, nil
}

// ParseInline parses the --seed-devices "NAME:IP[,NAME:IP...]" CLI flag form.
func ParseInline(spec string) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		entry, err := parseLine(part)
		if err != nil {
			return nil, fmt.Errorf("seedfile: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseLine(line string) (model.QueueEntry, error) {
	idx := strings.LastIndex(line, ":")
	if idx <= 0 || idx == len(line)-1 {
		return model.QueueEntry{}, fmt.Errorf("expected hostname:ip, got %q", line)
	}

	return model.QueueEntry{
		HostnameHint: strings.TrimSpace(line[:idx]),
		IP:           strings.TrimSpace(line[idx+1:]),
		Depth:        0,
		Origin:       "seed",
	}, nil
}
