// Package archive packs a directory tree into a dated zip file.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdonaldj/archivedir/internal/adapters/osfs"
	"github.com/mcdonaldj/archivedir/internal/adapters/ziparchiver"
	"github.com/mcdonaldj/archivedir/internal/ports"
)

// DateLayout is the date stamp appended to archive names.
const DateLayout = "2006-01-02"

// Result describes a produced archive.
type Result struct {
	Path      string // Absolute path of the zip file
	FileCount int
	Size      int64
}

// Service produces archives with injected dependencies.
type Service struct {
	fs       ports.FileSystem
	archiver ports.Archiver
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a new archive service with the given dependencies.
func NewService(fsys ports.FileSystem, archiver ports.Archiver, log zerolog.Logger) *Service {
	return &Service{
		fs:       fsys,
		archiver: archiver,
		log:      log,
		now:      time.Now,
	}
}

// NewDefaultService creates an archive service with real production dependencies.
func NewDefaultService(log zerolog.Logger) *Service {
	fsys := osfs.New()
	return NewService(fsys, ziparchiver.New(fsys, log), log)
}

// ArchiveName returns "<base>_<YYYY-MM-DD>.zip" for the given source directory and time.
func ArchiveName(sourceDir string, t time.Time) string {
	return fmt.Sprintf("%s_%s.zip", filepath.Base(sourceDir), t.Local().Format(DateLayout))
}

// Produce zips every regular file under sourceDir into
// outputDir/<base>_<date>.zip and returns the archive's absolute path.
//
// The source is checked before outputDir is touched. outputDir is created
// with any missing parents. An existing archive of the same name is
// overwritten. A failure part way through leaves the partial archive on disk.
// Every error is an *Error.
func (s *Service) Produce(sourceDir, outputDir string) (Result, error) {
	if err := s.checkSource(sourceDir); err != nil {
		return Result{}, err
	}

	if err := s.fs.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, classify("create output directory", outputDir, err)
	}

	src, err := s.fs.Resolve(sourceDir)
	if err != nil {
		return Result{}, classify("resolve", sourceDir, err)
	}
	out, err := s.fs.Resolve(outputDir)
	if err != nil {
		return Result{}, classify("resolve", outputDir, err)
	}

	zipPath := filepath.Join(out, ArchiveName(src, s.now()))
	s.log.Debug().Str("source", src).Str("archive", zipPath).Msg("creating archive")

	count, err := s.archiver.Create(zipPath, src)
	if err != nil {
		return Result{}, classify("archive", zipPath, err)
	}

	res := Result{Path: zipPath, FileCount: count}
	if info, err := s.fs.Stat(zipPath); err == nil {
		res.Size = info.Size()
	}
	return res, nil
}

// checkSource fails with KindNotFound unless dir exists and is a directory.
func (s *Service) checkSource(dir string) error {
	info, err := s.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Error{Kind: KindNotFound, Op: "source directory", Path: dir, Err: err}
		}
		return classify("source directory", dir, err)
	}
	if !info.IsDir() {
		return &Error{Kind: KindNotFound, Op: "source directory", Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}
