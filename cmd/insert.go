package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"update-appcast/internal/appcast"
	"update-appcast/internal/archive"
	"update-appcast/internal/config"
	"update-appcast/internal/logger"
)

// insertOptions holds everything collected from flags for one invocation.
type insertOptions struct {
	debug      bool
	dryRun     bool
	configPath string
	appcast    string
	release    config.Release
}

// bindFlags registers the release flags on cmd.
func (o *insertOptions) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Path to a YAML release manifest")
	f.StringVar(&o.appcast, "appcast", "", "Path to appcast.xml")
	f.StringVar(&o.release.Version, "version", "", "Short version string (e.g. 0.1.0)")
	f.StringVar(&o.release.BuildVersion, "build-version", "", "Build version (defaults to --version)")
	f.StringVar(&o.release.PubDate, "pubdate", "", "RFC822 date string")
	f.StringVar(&o.release.MinSystemVersion, "min-system-version", "", "Minimum macOS version (e.g. 11.0)")
	f.StringVar(&o.release.URL, "url", "", "Enclosure URL")
	f.Int64Var(&o.release.Length, "length", 0, "Enclosure length in bytes")
	f.StringVar(&o.release.Signature, "signature", "", "sparkle:edSignature value (base64)")
	f.StringVar(&o.release.Archive, "archive", "", "Local release artifact; derives --length and checks the archive")
	f.BoolVar(&o.dryRun, "dry-run", false, "Print the updated appcast instead of writing it")
}

// resolve merges the manifest (if any) under the explicit flags and fills
// in values derived from the artifact.
func (o *insertOptions) resolve(cmd *cobra.Command) (string, config.Release, error) {
	path := o.appcast
	rel := o.release
	lengthSet := cmd.Flags().Changed("length")

	if o.configPath != "" {
		m, err := config.LoadManifest(o.configPath)
		if err != nil {
			return "", rel, err
		}
		overlay := func(flag string, dst *string, fromManifest string) {
			if !cmd.Flags().Changed(flag) {
				*dst = fromManifest
			}
		}
		overlay("appcast", &path, m.Appcast)
		overlay("version", &rel.Version, m.Release.Version)
		overlay("build-version", &rel.BuildVersion, m.Release.BuildVersion)
		overlay("pubdate", &rel.PubDate, m.Release.PubDate)
		overlay("min-system-version", &rel.MinSystemVersion, m.Release.MinSystemVersion)
		overlay("url", &rel.URL, m.Release.URL)
		overlay("signature", &rel.Signature, m.Release.Signature)
		overlay("archive", &rel.Archive, m.Release.Archive)
		if !lengthSet && m.Release.Length != 0 {
			rel.Length = m.Release.Length
			lengthSet = true
		}
	}

	if err := config.Validate(path, rel); err != nil {
		return "", rel, &usageError{err: err}
	}

	if rel.Archive != "" {
		art, err := archive.Inspect(rel.Archive)
		if err != nil {
			return "", rel, err
		}
		switch {
		case !lengthSet:
			rel.Length = art.Length
			lengthSet = true
			logger.Debug("[DEBUG] Using artifact size %d as enclosure length\n", art.Length)
		case rel.Length != art.Length:
			logger.Warn("[WARN] --length %d differs from %s size %d; keeping --length\n", rel.Length, rel.Archive, art.Length)
		}
	}
	if !lengthSet {
		return "", rel, &usageError{err: fmt.Errorf("--length: %w", config.ErrMissingField)}
	}

	if !config.CheckPubDate(rel.PubDate) {
		logger.Warn("[WARN] --pubdate %q is not an RFC 822 date\n", rel.PubDate)
	}
	return path, rel, nil
}

// runInsert loads the appcast, inserts the new release and writes the result.
// Nothing is written when loading fails.
func runInsert(cmd *cobra.Command, o *insertOptions) error {
	path, rel, err := o.resolve(cmd)
	if err != nil {
		return err
	}

	feed, err := appcast.Load(path)
	if err != nil {
		return err
	}

	item := appcast.NewItem(rel, feed.Prefix())
	pos := feed.Insert(item)
	logger.Debug("[DEBUG] Channel now holds %d releases, new one at element %d\n", len(feed.Items()), pos)

	if o.dryRun {
		if _, err := feed.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write appcast: %w", err)
		}
		return nil
	}

	if err := feed.Save(path); err != nil {
		return fmt.Errorf("failed to write appcast %s: %w", path, err)
	}
	logger.Info("[INFO] Added %s (build %s) to %s\n", rel.Version, rel.EffectiveBuildVersion(), path)
	return nil
}
