// Package archive inspects the release artifact announced in the appcast.
package archive

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data
	"update-appcast/internal/logger"
)

// Format names reported in Artifact.Format.
const (
	FormatZip   = "zip"
	Format7z    = "7z"
	FormatTar   = "tar"
	FormatTarGz = "tar.gz"
	FormatTarBz = "tar.bz2"
	FormatTarXz = "tar.xz"
	FormatOther = "other"
)

// ErrEmptyArchive indicates an archive that opened fine but has no entries.
var ErrEmptyArchive = errors.New("archive has no entries")

// Artifact is what Inspect learned about a release download.
type Artifact struct {
	Path    string
	Length  int64  // Size of the file in bytes, as advertised in <enclosure length>
	Format  string // One of the Format* constants
	Entries int    // Number of entries; zero for FormatOther
}

// DetectFormat maps a file name to one of the Format* constants by extension.
func DetectFormat(path string) string {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	case strings.HasSuffix(name, ".7z"):
		return Format7z
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz"):
		return FormatTarBz
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatTarXz
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	default:
		return FormatOther
	}
}

// Inspect sizes the artifact at path and, for archive formats, walks its
// entries to make sure it is readable and non-empty. Disk images and
// installer packages are only sized.
func Inspect(path string) (Artifact, error) {
	art := Artifact{Path: path, Format: DetectFormat(path)}

	info, err := os.Stat(path)
	if err != nil {
		return art, fmt.Errorf("failed to stat artifact: %w", err)
	}
	if info.IsDir() {
		return art, fmt.Errorf("artifact %s is a directory", path)
	}
	art.Length = info.Size()
	logger.Debug("[DEBUG] Artifact %s: %d bytes, format %s\n", path, art.Length, art.Format)

	switch art.Format {
	case FormatZip:
		art.Entries, err = countZip(path)
	case Format7z:
		art.Entries, err = count7z(path)
	case FormatTar, FormatTarGz, FormatTarBz, FormatTarXz:
		art.Entries, err = countTar(path, art.Format)
	default:
		logger.Debug("[DEBUG] Not an archive format, skipping entry check for %s\n", path)
		return art, nil
	}
	if err != nil {
		return art, fmt.Errorf("failed to read %s archive %s: %w", art.Format, path, err)
	}
	if art.Entries == 0 {
		return art, fmt.Errorf("%s: %w", path, ErrEmptyArchive)
	}

	logger.Debug("[DEBUG] Artifact %s holds %d entries\n", path, art.Entries)
	return art, nil
}

// countZip opens a .zip archive and counts its entries.
func countZip(path string) (int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return len(r.File), nil
}

// count7z opens a .7z archive using the sevenzip library and counts its entries.
func count7z(path string) (int, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return len(r.File), nil
}

// countTar streams a plain or compressed tarball to the end, so truncated
// or corrupt archives are reported rather than announced.
func countTar(path, format string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var reader io.Reader = f
	switch format {
	case FormatTarGz:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return 0, err
		}
		defer gr.Close()
		reader = gr
	case FormatTarBz:
		reader = bzip2.NewReader(f)
	case FormatTarXz:
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return 0, err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	count := 0
	for {
		_, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return count, err
		}
		if _, err := io.Copy(io.Discard, tr); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
