package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "   "},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available {
		t.Fatalf("expected unconfigured command to be unavailable")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[2].Detail)
	}
}

func TestCheckBinariesCapturesVersion(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "versioned")
	script := []byte("#!/bin/sh\necho \"versioned 4.2.1\"\necho \"built with example flags\"\n")
	if err := os.WriteFile(tool, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries(context.Background(), []Requirement{
		{Name: "Versioned", Command: tool, VersionArgs: []string{"-version"}},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected tool to be available: %#v", results[0])
	}
	if results[0].Version != "versioned 4.2.1" {
		t.Fatalf("expected first output line as version, got %q", results[0].Version)
	}
}

func TestCheckBinariesVersionFailureStillAvailable(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "grumpy")
	script := []byte("#!/bin/sh\nexit 2\n")
	if err := os.WriteFile(tool, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries(context.Background(), []Requirement{
		{Name: "Grumpy", Command: tool, VersionArgs: []string{"--version"}},
	})
	if !results[0].Available {
		t.Fatalf("expected tool to be available despite version failure: %#v", results[0])
	}
	if results[0].Version != "" {
		t.Fatalf("expected empty version, got %q", results[0].Version)
	}
}
