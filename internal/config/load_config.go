package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"update-appcast/internal/logger"
)

// ErrMissingField is wrapped by Validate for every required value left empty.
var ErrMissingField = errors.New("missing required value")

// pubDateLayouts are the RFC 822 variants accepted without a warning.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// LoadManifest reads a release manifest YAML file such as:
//
//	appcast: docs/appcast.xml
//	release:
//	  version: 1.2.3
//	  pubdate: Mon, 01 Jan 2024 00:00:00 +0000
//	  min_system_version: "11.0"
//	  url: https://example.com/app.zip
//	  archive: dist/app.zip
//	  signature: abc==
func LoadManifest(path string) (Manifest, error) {
	var m Manifest

	raw, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return m, fmt.Errorf("failed to unmarshal manifest %s: %w", path, err)
	}

	logger.Debug("[DEBUG] Loaded manifest %s (appcast=%q, version=%q)\n", path, m.Appcast, m.Release.Version)
	return m, nil
}

// Validate reports the first missing required value of the invocation.
// Length is only required to be non-negative here; callers derive it from
// Archive when it was not given explicitly.
func Validate(appcast string, r Release) error {
	required := []struct {
		flag  string
		value string
	}{
		{"appcast", appcast},
		{"version", r.Version},
		{"pubdate", r.PubDate},
		{"min-system-version", r.MinSystemVersion},
		{"url", r.URL},
		{"signature", r.Signature},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("--%s: %w", f.flag, ErrMissingField)
		}
	}
	if r.Length < 0 {
		return fmt.Errorf("--length must not be negative, got %d", r.Length)
	}
	return nil
}

// CheckPubDate reports whether value parses as an RFC 822 style date.
// Sparkle clients are lenient, so a mismatch is only worth a warning.
func CheckPubDate(value string) bool {
	for _, layout := range pubDateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
