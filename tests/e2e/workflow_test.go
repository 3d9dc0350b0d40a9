package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestEndToEndWorkflow drives the compiled CLI through a full habit
// lifecycle against an isolated database: init, add, mark, toggle,
// settings, backup, soft delete, restore, doctor.
func TestEndToEndWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end workflow in short mode")
	}

	binPath := buildCLI(t)

	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "ritual", "ritual.db")

	// Keep $HOME inside the sandbox so nothing leaks into the real config dir.
	env := append(os.Environ(), "HOME="+tempDir)

	run := func(args ...string) string {
		t.Helper()
		full := append([]string{"--config", dbPath}, args...)
		cmd := exec.Command(binPath, full...)
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("Command %s %v failed: %v\nOutput: %s", binPath, full, err, out)
		}
		return string(out)
	}

	t.Log("Initializing storage...")
	out := run("init")
	if !strings.Contains(out, "Initialized ritual database") {
		t.Errorf("init output = %q, want initialization message", out)
	}

	out = run("migrate")
	if !strings.Contains(out, "up to date") {
		t.Errorf("migrate output = %q, want up-to-date message", out)
	}

	t.Log("Adding habits...")
	run("habit", "add", "Meditate", "--notes", "10 minutes, first thing")
	run("habit", "add", "Long Run", "--kind", "weekly", "--days", "sat")

	out = run("habit", "list")
	for _, name := range []string{"Meditate", "Long Run"} {
		if !strings.Contains(out, name) {
			t.Errorf("habit list output = %q, want %s listed", out, name)
		}
	}

	t.Log("Marking today's completion...")
	out = run("habit", "done", "Meditate")
	if !strings.Contains(out, `Marked "Meditate" done`) {
		t.Errorf("habit done output = %q, want marked message", out)
	}

	out = run("habit", "today")
	if !strings.Contains(out, "[x] Meditate") {
		t.Errorf("habit today output = %q, want Meditate marked", out)
	}

	out = run("stats", "streaks")
	if !strings.Contains(out, "Meditate") || !strings.Contains(out, "active") {
		t.Errorf("stats streaks output = %q, want an active Meditate streak", out)
	}

	t.Log("Toggling the completion off and back on...")
	out = run("habit", "done", "Meditate")
	if !strings.Contains(out, `Unmarked "Meditate"`) {
		t.Errorf("habit done output = %q, want unmarked message", out)
	}
	run("habit", "done", "Meditate")

	t.Log("Updating settings...")
	run("settings", "--timezone", "UTC", "--max-backups", "5")
	out = run("settings", "--list")
	if !strings.Contains(out, "UTC") {
		t.Errorf("settings output = %q, want UTC timezone", out)
	}

	t.Log("Creating a backup...")
	out = run("backup", "create")
	if !strings.Contains(out, "Created backup") {
		t.Errorf("backup create output = %q, want backup path", out)
	}
	out = run("backup", "list")
	if !strings.Contains(out, "ritual-") {
		t.Errorf("backup list output = %q, want a ritual-*.db entry", out)
	}

	t.Log("Soft deleting and restoring...")
	run("habit", "delete", "Long Run")
	out = run("habit", "list")
	if strings.Contains(out, "Long Run") {
		t.Errorf("habit list output = %q, deleted habit should be hidden", out)
	}
	out = run("habit", "list", "--deleted")
	if !strings.Contains(out, "Long Run") || !strings.Contains(out, "[DELETED]") {
		t.Errorf("habit list --deleted output = %q, want Long Run tagged deleted", out)
	}
	run("habit", "restore", "Long Run")
	out = run("habit", "list")
	if !strings.Contains(out, "Long Run") {
		t.Errorf("habit list output = %q, want restored Long Run", out)
	}

	t.Log("Running diagnostics...")
	out = run("doctor")
	if !strings.Contains(out, "All diagnostics passed!") {
		t.Errorf("doctor output = %q, want a clean bill of health", out)
	}
}

// buildCLI compiles the ritual binary into a temp dir, or returns the path
// from RITUAL_BIN when a prebuilt binary should be used.
func buildCLI(t *testing.T) string {
	t.Helper()

	if bin := os.Getenv("RITUAL_BIN"); bin != "" {
		return bin
	}

	projectRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("Failed to resolve project root: %v", err)
	}

	binPath := filepath.Join(t.TempDir(), "ritual")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/ritual")
	cmd.Dir = projectRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\nOutput: %s", err, out)
	}
	return binPath
}
