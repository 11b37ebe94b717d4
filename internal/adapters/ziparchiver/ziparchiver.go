// Package ziparchiver provides an archiver adapter writing zip files with mholt/archiver.
package ziparchiver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"github.com/rs/zerolog"

	"github.com/mcdonaldj/archivedir/internal/ports"
)

// ZipArchiver implements ports.Archiver using archiver.Zip.
type ZipArchiver struct {
	fs  ports.FileSystem
	log zerolog.Logger
}

// New creates a new ZipArchiver adapter reading and writing through fs.
func New(fs ports.FileSystem, log zerolog.Logger) *ZipArchiver {
	return &ZipArchiver{fs: fs, log: log}
}

// Create writes a zip archive of sourceDir to destPath.
// Returns the number of files archived.
//
// The first error met while walking or copying aborts the archive. The zip
// writer and the file are closed on every path, leaving whatever was written
// so far on disk.
func (a *ZipArchiver) Create(destPath, sourceDir string) (fileCount int, err error) {
	out, err := a.fs.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing zip file: %w", closeErr)
		}
	}()

	z := archiver.NewZip()
	z.FileMethod = archiver.Deflate
	z.SelectiveCompression = false // every entry is deflated, even .jpg or .zip
	if err := z.Create(out); err != nil {
		return 0, err
	}
	// Runs before the file close above.
	defer func() {
		if closeErr := z.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing zip writer: %w", closeErr)
		}
	}()

	err = a.fs.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil // Directories are created implicitly
		}
		if path == destPath {
			a.log.Debug().Str("path", path).Msg("skipped archive being written")
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := a.fs.Stat(path)
			if err != nil {
				return err
			}
			if target.IsDir() {
				a.log.Debug().Str("path", path).Msg("skipped symlinked directory")
				return nil
			}
			info = target
		}
		if !info.Mode().IsRegular() {
			a.log.Debug().Str("path", path).Str("mode", info.Mode().String()).Msg("skipped non-regular file")
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)

		if err := a.addFile(z, path, name, info); err != nil {
			return err
		}
		fileCount++
		a.log.Debug().Str("entry", name).Msg("added entry")
		return nil
	})
	return fileCount, err
}

// addFile copies one file into the archive under name.
func (a *ZipArchiver) addFile(z *archiver.Zip, path, name string, info os.FileInfo) error {
	file, err := a.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }() // read-only, close error carries nothing

	return z.Write(archiver.File{
		FileInfo: archiver.FileInfo{
			FileInfo:   info,
			CustomName: name,
		},
		ReadCloser: file,
	})
}

// List returns a map of entry names to their info from the archive.
func (a *ZipArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	f, err := a.fs.Open(zipPath)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading zip %s: %w", zipPath, err)
	}

	files := make(map[string]ports.FileInfo, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Safe conversion: check for overflow before uint64 -> int64
		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		files[f.Name] = ports.FileInfo{
			Size:  size,
			CRC32: f.CRC32,
		}
	}

	return files, nil
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
