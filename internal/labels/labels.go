// Package labels reads the organisation labels shown above the entry form.
//
// The file holds one "key;value" pair per line. Lines are split at the first
// semicolon and both halves are trimmed, so later semicolons stay in the
// value. Blank lines and lines without a semicolon are skipped. When a key
// repeats, the last line wins.
package labels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	KeyOrgName = "orgname"
	KeyAddress = "address"

	// Missing is displayed for keys the file does not define.
	Missing = "N/A"
)

type Labels struct {
	values map[string]string
}

// Load reads path. A missing file is not an error and yields empty labels.
func Load(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Labels{values: map[string]string{}}, nil
		}
		return Labels{values: map[string]string{}}, fmt.Errorf("open labels file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	l, err := Parse(f)
	if err != nil {
		return l, fmt.Errorf("read labels file %q: %w", path, err)
	}
	return l, nil
}

func Parse(r io.Reader) (Labels, error) {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ";")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return Labels{values: values}, err
	}
	return Labels{values: values}, nil
}

func (l Labels) Lookup(key string) (string, bool) {
	v, ok := l.values[key]
	return v, ok
}

// Get returns the value for key, or Missing.
func (l Labels) Get(key string) string {
	if v, ok := l.values[key]; ok {
		return v
	}
	return Missing
}

func (l Labels) OrgName() string { return l.Get(KeyOrgName) }
func (l Labels) Address() string { return l.Get(KeyAddress) }

func (l Labels) Len() int { return len(l.values) }

func (l Labels) Keys() []string {
	keys := make([]string, 0, len(l.values))
	for k := range l.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
