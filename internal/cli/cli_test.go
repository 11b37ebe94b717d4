package cli

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mcdonaldj/archivedir/internal/archive"
	"github.com/mcdonaldj/archivedir/internal/config"
)

// ============================================================================
// Mock implementations for testing
// ============================================================================

// mockConfigService implements ConfigService for testing.
type mockConfigService struct {
	config        *config.Config
	loadErr       error
	saveErr       error
	saved         *config.Config
	configPath    string
	configPathErr error
	defaultCfgErr error
}

func newMockConfigService() *mockConfigService {
	return &mockConfigService{
		config: &config.Config{
			LogLevel:  "info",
			LogFormat: "console",
		},
		configPath: "/test/.archivedir/config.yaml",
	}
}

func (m *mockConfigService) Load() (*config.Config, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.config, nil
}

func (m *mockConfigService) Save(cfg *config.Config) error {
	m.saved = cfg
	return m.saveErr
}

func (m *mockConfigService) ConfigPath() (string, error) {
	if m.configPathErr != nil {
		return "", m.configPathErr
	}
	return m.configPath, nil
}

func (m *mockConfigService) DefaultConfig() (*config.Config, error) {
	if m.defaultCfgErr != nil {
		return nil, m.defaultCfgErr
	}
	return m.config, nil
}

// mockArchiveService implements ArchiveService for testing.
type mockArchiveService struct {
	result  archive.Result
	err     error
	calls   [][2]string
	lastLog zerolog.Logger
}

func (m *mockArchiveService) Produce(sourceDir, outputDir string) (archive.Result, error) {
	m.calls = append(m.calls, [2]string{sourceDir, outputDir})
	m.lastLog.Debug().Str("entry", "f1").Msg("added entry")
	if m.err != nil {
		return archive.Result{}, m.err
	}
	return m.result, nil
}

// ============================================================================
// Test helpers
// ============================================================================

type testCLI struct {
	*CLI
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	exitCode int
	cfg      *mockConfigService
	svc      *mockArchiveService
}

func newTestCLI(args ...string) *testCLI {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	tc := &testCLI{
		out:    out,
		errOut: errOut,
		cfg:    newMockConfigService(),
		svc: &mockArchiveService{
			result: archive.Result{Path: "/out/project_2024-03-01.zip", FileCount: 2, Size: 2048},
		},
	}
	tc.CLI = NewForTesting(out, errOut, append([]string{"archivedir"}, args...))
	tc.Exit = func(code int) { tc.exitCode = code }
	tc.ConfigSvc = tc.cfg
	tc.ArchiveSvc = func(log zerolog.Logger) ArchiveService {
		tc.svc.lastLog = log
		return tc.svc
	}
	return tc
}

// ============================================================================
// Tests
// ============================================================================

func TestRunNoArgs(t *testing.T) {
	tc := newTestCLI()
	tc.Run()

	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
	if !strings.Contains(tc.errOut.String(), "Usage:") {
		t.Errorf("expected usage on stderr, got %q", tc.errOut.String())
	}
}

func TestRunVersion(t *testing.T) {
	for _, arg := range []string{"version", "-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			tc := newTestCLI(arg)
			tc.Run()
			if got := tc.out.String(); got != "archivedir vtest\n" {
				t.Errorf("output = %q, expected %q", got, "archivedir vtest\n")
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	tc := newTestCLI("help")
	tc.Run()
	if !strings.Contains(tc.out.String(), "--source-dir") {
		t.Errorf("help should mention --source-dir, got %q", tc.out.String())
	}
	if tc.exitCode != 0 {
		t.Errorf("exit code = %d, expected 0", tc.exitCode)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	tc := newTestCLI("frobnicate")
	tc.Run()
	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
	if !strings.Contains(tc.errOut.String(), "Unknown command: frobnicate") {
		t.Errorf("stderr = %q", tc.errOut.String())
	}
}

func TestArchiveWithFlags(t *testing.T) {
	tc := newTestCLI("--source-dir", "/src/project", "--output-dir", "/out")
	tc.Run()

	if tc.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
	if len(tc.svc.calls) != 1 {
		t.Fatalf("Produce called %d times, expected 1", len(tc.svc.calls))
	}
	if tc.svc.calls[0] != [2]string{"/src/project", "/out"} {
		t.Errorf("Produce args = %v", tc.svc.calls[0])
	}
	if !strings.Contains(tc.out.String(), "/out/project_2024-03-01.zip 2.0 KiB 2 files") {
		t.Errorf("stdout = %q", tc.out.String())
	}
	if !strings.Contains(tc.errOut.String(), "archivedir: INFO: Zipped /src/project to /out/project_2024-03-01.zip") {
		t.Errorf("stderr = %q", tc.errOut.String())
	}
	// Debug entries are hidden at the default level
	if strings.Contains(tc.errOut.String(), "added entry") {
		t.Errorf("debug output leaked at info level: %q", tc.errOut.String())
	}
}

func TestArchiveRunPositional(t *testing.T) {
	tc := newTestCLI("run", "/src/project", "/out")
	tc.Run()

	if tc.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
	if tc.svc.calls[0] != [2]string{"/src/project", "/out"} {
		t.Errorf("Produce args = %v", tc.svc.calls[0])
	}
}

func TestArchiveOutputFromConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tc := newTestCLI("--source-dir", "/src/project")
	tc.cfg.config.OutputDir = "~/archives"
	tc.Run()

	if tc.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
	if got := tc.svc.calls[0][1]; got != filepath.Join(home, "archives") {
		t.Errorf("output dir = %q, expected %q", got, filepath.Join(home, "archives"))
	}
}

func TestArchiveMissingArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no source", []string{"--output-dir", "/out"}, "--source-dir is required"},
		{"no output", []string{"--source-dir", "/src"}, "--output-dir is required"},
		{"unknown flag", []string{"--bogus"}, "unknown flag"},
		{"bad log format", []string{"--source-dir", "/src", "--output-dir", "/out", "--log-format", "xml"}, "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(tt.args...)
			tc.Run()
			if tc.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", tc.exitCode)
			}
			if len(tc.svc.calls) != 0 {
				t.Errorf("Produce should not be called")
			}
			if !strings.Contains(tc.errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q, expected to contain %q", tc.errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestArchiveConfigLoadError(t *testing.T) {
	tc := newTestCLI("--source-dir", "/src", "--output-dir", "/out")
	tc.cfg.loadErr = errors.New("broken yaml")
	tc.Run()

	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
	if !strings.Contains(tc.errOut.String(), "Error loading config: broken yaml") {
		t.Errorf("stderr = %q", tc.errOut.String())
	}
}

func TestArchiveFailureKinds(t *testing.T) {
	pathErr := &fs.PathError{Op: "open", Path: "/src/x", Err: fs.ErrPermission}
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{
			name:    "not found",
			err:     &archive.Error{Kind: archive.KindNotFound, Op: "source directory", Path: "/src", Err: fs.ErrNotExist},
			wantErr: "archivedir: ERROR: source directory /src: file does not exist",
		},
		{
			name:    "permission",
			err:     &archive.Error{Kind: archive.KindPermission, Op: "archive", Path: "/src/x", Err: pathErr},
			wantErr: "archivedir: ERROR: Permission error: archive /src/x: open /src/x: permission denied",
		},
		{
			name:    "filesystem",
			err:     &archive.Error{Kind: archive.KindFilesystem, Op: "archive", Path: "/out/a.zip", Err: errors.New("no space left on device")},
			wantErr: "archivedir: ERROR: OS error: archive /out/a.zip: no space left on device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI("--source-dir", "/src", "--output-dir", "/out")
			tc.svc.err = tt.err
			tc.Run()

			if tc.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", tc.exitCode)
			}
			if !strings.Contains(tc.errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q, expected to contain %q", tc.errOut.String(), tt.wantErr)
			}
			if strings.Contains(tc.out.String(), ".zip") {
				t.Errorf("no archive path should be reported on failure: %q", tc.out.String())
			}
		})
	}
}

func TestArchiveVerboseJSON(t *testing.T) {
	tc := newTestCLI("--source-dir", "/src", "--output-dir", "/out", "--verbose", "--log-format", "json")
	tc.Run()

	if tc.exitCode != 0 {
		t.Fatalf("exit code = %d, stderr = %q", tc.exitCode, tc.errOut.String())
	}
	errOut := tc.errOut.String()
	if !strings.Contains(errOut, `"level":"debug"`) || !strings.Contains(errOut, `"entry":"f1"`) {
		t.Errorf("expected JSON debug entry log, got %q", errOut)
	}
}

func TestArchiveEndToEnd(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "project")
	tc := newTestCLI("--source-dir", source, "--output-dir", filepath.Join(tempDir, "out"))
	tc.ArchiveSvc = nil // real service
	tc.Run()

	// Source does not exist: NotFound, exit 1
	if tc.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", tc.exitCode)
	}
	if !strings.Contains(tc.errOut.String(), source) {
		t.Errorf("stderr should name the source path, got %q", tc.errOut.String())
	}
}

func TestInitConfig(t *testing.T) {
	tc := newTestCLI("init")
	tc.Run()

	if tc.exitCode != 0 {
		t.Fatalf("exit code = %d", tc.exitCode)
	}
	if tc.cfg.saved == nil {
		t.Error("config was not saved")
	}
	if !strings.Contains(tc.out.String(), "Created config at /test/.archivedir/config.yaml") {
		t.Errorf("stdout = %q", tc.out.String())
	}
}

func TestInitConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *mockConfigService)
		wantErr string
	}{
		{"default fails", func(m *mockConfigService) { m.defaultCfgErr = errors.New("no home") }, "Error: no home"},
		{"save fails", func(m *mockConfigService) { m.saveErr = errors.New("read-only") }, "Error saving config: read-only"},
		{"path fails", func(m *mockConfigService) { m.configPathErr = errors.New("no home") }, "Error: no home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI("init")
			tt.setup(tc.cfg)
			tc.Run()
			if tc.exitCode != 1 {
				t.Errorf("exit code = %d, expected 1", tc.exitCode)
			}
			if !strings.Contains(tc.errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q, expected to contain %q", tc.errOut.String(), tt.wantErr)
			}
		})
	}
}
