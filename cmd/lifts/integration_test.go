// ABOUTME: Integration tests for the lifts binary.
// ABOUTME: Builds the CLI and drives a full plan, history, and export workflow.
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	liftsBinary := filepath.Join(tmpDir, "lifts")

	buildCmd := exec.Command("go", "build", "-o", liftsBinary, ".")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(liftsBinary, fullArgs...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("workout", "add", "Push Day", "--day", "monday")
	if err != nil {
		t.Fatalf("Failed to add workout: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added workout Push Day") {
		t.Errorf("Expected 'Added workout Push Day' in output, got: %s", output)
	}

	id := regexp.MustCompile(`ID: ([0-9a-f]{8})`).FindStringSubmatch(output)
	if id == nil {
		t.Fatalf("No ID in output: %s", output)
	}

	output, err = run("workout", "exercise", id[1], "Bench Press", "--set", "10@60", "--set", "8@65")
	if err != nil {
		t.Fatalf("Failed to add exercise: %v\n%s", err, output)
	}
	if !strings.Contains(output, "set 2: 8 @ 65") {
		t.Errorf("Expected set listing in output, got: %s", output)
	}

	output, err = run("workout", "list", "--day", "mon")
	if err != nil {
		t.Fatalf("Failed to list workouts: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Push Day") {
		t.Errorf("Expected 'Push Day' in workout list, got: %s", output)
	}

	output, err = run("cardio", "add", id[1], "Rower", "--duration", "10")
	if err != nil {
		t.Fatalf("Failed to add cardio: %v\n%s", err, output)
	}

	output, err = run("workout", "show", id[1])
	if err != nil {
		t.Fatalf("Failed to show workout: %v\n%s", err, output)
	}
	for _, want := range []string{"Bench Press", "set 1: 10 @ 60", "Rower, 10 min"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in show output, got: %s", want, output)
		}
	}

	output, err = run("history")
	if err != nil {
		t.Fatalf("Failed to list history: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No sessions found.") {
		t.Errorf("Expected empty history, got: %s", output)
	}

	output, err = run("export", "markdown")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, "# Lifts Export") || !strings.Contains(output, "Push Day") {
		t.Errorf("Unexpected markdown export: %s", output)
	}

	output, err = run("workout", "delete", id[1])
	if err != nil {
		t.Fatalf("Failed to delete workout: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Deleted workout Push Day") {
		t.Errorf("Expected delete confirmation, got: %s", output)
	}
}
