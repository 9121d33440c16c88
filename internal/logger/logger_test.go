package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}

	// macOS 下 TempDir 可能带符号链接，回到真实路径再比对
	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve log dir symlink failed: %v", err)
	}
	if want := filepath.Join(realTmpDir, defaultLogDirName); realGotDir != want {
		t.Fatalf("unexpected log dir: got=%s want=%s", realGotDir, want)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("expected log file to be pre-created: %v", err)
	}
	if info.IsDir() {
		t.Fatalf("log path resolved to a directory: %s", got)
	}
}

func TestNewReleaseModeWritesJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "service.log"})
	log.Info("order_settled")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "service.log"))
	if err != nil {
		t.Fatalf("read log file failed: %v", err)
	}
	body := string(content)
	if !strings.Contains(body, "order_settled") {
		t.Fatalf("expected message in log output, got=%s", body)
	}
	if !strings.Contains(body, `"message"`) {
		t.Fatalf("expected JSON encoded output, got=%s", body)
	}
}

func TestNewDebugModeSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug_mode_event")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create a log file")
	}
}

func TestPositiveOr(t *testing.T) {
	if got := positiveOr(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := positiveOr(-3, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := positiveOr(12, 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}
