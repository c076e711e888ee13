package database

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestRemoveStalePIDFile(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "postmaster.pid")

	// No pid file: nothing to do
	if err := removeStalePIDFile(dir); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}

	// Dead process: file removed
	if err := os.WriteFile(pidFile, []byte("999999\n/data\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := removeStalePIDFile(dir); err != nil {
		t.Fatalf("stale pid file: %v", err)
	}
	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Errorf("stale pid file should be removed, stat err = %v", err)
	}

	// Live process: file kept and reported
	live := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(pidFile, []byte(live), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := removeStalePIDFile(dir); err == nil {
		t.Error("expected an error for a running postmaster")
	}
	if _, err := os.Stat(pidFile); err != nil {
		t.Errorf("live pid file should be kept: %v", err)
	}
}
