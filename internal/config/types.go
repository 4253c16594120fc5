package config

// Release describes one published build announced in the appcast.
// - Version: Short, user-facing version string (e.g. 1.2.3).
// - BuildVersion: Machine-comparable build version; defaults to Version when empty.
// - PubDate: RFC 822 publish date as it should appear in <pubDate>.
// - MinSystemVersion: Minimum macOS version required to run the release.
// - URL/Length/Signature: Download location, size in bytes and EdDSA signature of the artifact.
// - Archive: Optional local path of the artifact, used to derive Length and check the archive.
type Release struct {
	Version          string `yaml:"version"`
	BuildVersion     string `yaml:"build_version"`
	PubDate          string `yaml:"pubdate"`
	MinSystemVersion string `yaml:"min_system_version"`
	URL              string `yaml:"url"`
	Length           int64  `yaml:"length"`
	Signature        string `yaml:"signature"`
	Archive          string `yaml:"archive"`
}

// Manifest is the optional YAML file passed with --config.
// Values given on the command line take precedence over the manifest.
type Manifest struct {
	Appcast string  `yaml:"appcast"`
	Release Release `yaml:"release"`
}

// EffectiveBuildVersion returns BuildVersion, falling back to Version.
func (r Release) EffectiveBuildVersion() string {
	if r.BuildVersion != "" {
		return r.BuildVersion
	}
	return r.Version
}
