package telegram

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveTokenPrefersEnvironment(t *testing.T) {
	t.Setenv(tokenEnv, "env-token")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "telegram.token"), []byte("file-token\n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	token, err := ResolveToken(dir)
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "env-token" {
		t.Errorf("token = %q, want env-token", token)
	}
}

func TestResolveTokenFallsBackToFile(t *testing.T) {
	t.Setenv(tokenEnv, "")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "telegram.token"), []byte("  file-token\n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	token, err := ResolveToken(dir)
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "file-token" {
		t.Errorf("token = %q, want file-token", token)
	}
}

func TestResolveTokenMissingEverywhere(t *testing.T) {
	t.Setenv(tokenEnv, "")

	if _, err := ResolveToken(t.TempDir()); err == nil {
		t.Error("expected error when no token source exists")
	}
}

func TestResolveTokenEmptyFile(t *testing.T) {
	t.Setenv(tokenEnv, "")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "telegram.token"), []byte("  \n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	if _, err := ResolveToken(dir); err == nil {
		t.Error("expected error for empty token file")
	}
}
