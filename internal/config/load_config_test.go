package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "release.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
appcast: docs/appcast.xml
release:
  version: 1.2.3
  build_version: "45"
  pubdate: Mon, 01 Jan 2024 00:00:00 +0000
  min_system_version: "11.0"
  url: https://example.com/app.zip
  length: 12345
  signature: abc==
  archive: dist/app.zip
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	want := Manifest{
		Appcast: "docs/appcast.xml",
		Release: Release{
			Version:          "1.2.3",
			BuildVersion:     "45",
			PubDate:          "Mon, 01 Jan 2024 00:00:00 +0000",
			MinSystemVersion: "11.0",
			URL:              "https://example.com/app.zip",
			Length:           12345,
			Signature:        "abc==",
			Archive:          "dist/app.zip",
		},
	}
	if m != want {
		t.Fatalf("manifest = %+v, want %+v", m, want)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadManifest(writeManifest(t, "release:\n  versoin: 1.0\n"))
		if err == nil || !strings.Contains(err.Error(), "versoin") {
			t.Fatalf("expected unknown field error, got %v", err)
		}
	})
	t.Run("bad length", func(t *testing.T) {
		if _, err := LoadManifest(writeManifest(t, "release:\n  length: big\n")); err == nil {
			t.Fatal("expected error for non-integer length")
		}
	})
	t.Run("empty file", func(t *testing.T) {
		m, err := LoadManifest(writeManifest(t, ""))
		if err != nil {
			t.Fatalf("empty manifest should load, got %v", err)
		}
		if m != (Manifest{}) {
			t.Fatalf("expected zero manifest, got %+v", m)
		}
	})
}

func TestValidate(t *testing.T) {
	full := Release{
		Version:          "1.2.3",
		PubDate:          "Mon, 01 Jan 2024 00:00:00 +0000",
		MinSystemVersion: "11.0",
		URL:              "https://example.com/app.zip",
		Signature:        "abc==",
	}
	if err := Validate("appcast.xml", full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name    string
		appcast string
		mutate  func(*Release)
		flag    string
	}{
		{"appcast", "", func(r *Release) {}, "--appcast"},
		{"version", "a.xml", func(r *Release) { r.Version = "" }, "--version"},
		{"pubdate", "a.xml", func(r *Release) { r.PubDate = " " }, "--pubdate"},
		{"min system", "a.xml", func(r *Release) { r.MinSystemVersion = "" }, "--min-system-version"},
		{"url", "a.xml", func(r *Release) { r.URL = "" }, "--url"},
		{"signature", "a.xml", func(r *Release) { r.Signature = "" }, "--signature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := full
			tc.mutate(&r)
			err := Validate(tc.appcast, r)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.flag) {
				t.Fatalf("error %q should name %s", err, tc.flag)
			}
		})
	}

	neg := full
	neg.Length = -1
	if err := Validate("a.xml", neg); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestEffectiveBuildVersion(t *testing.T) {
	if got := (Release{Version: "1.0"}).EffectiveBuildVersion(); got != "1.0" {
		t.Fatalf("got %q, want 1.0", got)
	}
	if got := (Release{Version: "1.0", BuildVersion: "7"}).EffectiveBuildVersion(); got != "7" {
		t.Fatalf("got %q, want 7", got)
	}
}

func TestCheckPubDate(t *testing.T) {
	valid := []string{
		"Mon, 01 Jan 2024 00:00:00 +0000",
		"Mon, 01 Jan 2024 00:00:00 UTC",
		"01 Jan 24 00:00 +0000",
	}
	for _, v := range valid {
		if !CheckPubDate(v) {
			t.Errorf("%q should be accepted", v)
		}
	}
	for _, v := range []string{"2024-01-01", "yesterday"} {
		if CheckPubDate(v) {
			t.Errorf("%q should be rejected", v)
		}
	}
}
