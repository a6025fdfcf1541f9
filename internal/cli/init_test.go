package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func overrideInitDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalFunc := initDirFunc
	initDirFunc = func() (string, error) {
		return tempDir, nil
	}
	t.Cleanup(func() {
		initDirFunc = originalFunc
	})
	return tempDir
}

func TestCreateSiteConfig(t *testing.T) {
	tempDir := overrideInitDir(t)

	result := createSiteConfig()
	if result.status != "done" {
		t.Fatalf("expected status 'done', got %q: %s", result.status, result.message)
	}

	configPath := filepath.Join(tempDir, "site.yaml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}

	if !strings.Contains(string(content), "theme: earthtone") {
		t.Error("config file doesn't contain the default theme")
	}
	if !strings.Contains(string(content), "output: public") {
		t.Error("config file doesn't contain the default output dir")
	}
}

func TestCreateSiteConfig_ExistingNoForce(t *testing.T) {
	tempDir := overrideInitDir(t)

	configPath := filepath.Join(tempDir, "site.yaml")
	if err := os.WriteFile(configPath, []byte("title: Existing\n"), 0644); err != nil {
		t.Fatalf("write existing config: %v", err)
	}

	originalForce := initForce
	initForce = false
	defer func() { initForce = originalForce }()

	result := createSiteConfig()
	if result.status != "skipped" {
		t.Fatalf("expected status 'skipped', got %q", result.status)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	if !strings.Contains(string(content), "Existing") {
		t.Error("existing config was overwritten without --force")
	}
}

func TestCreateSiteConfig_ExistingForce(t *testing.T) {
	tempDir := overrideInitDir(t)

	configPath := filepath.Join(tempDir, "site.yaml")
	if err := os.WriteFile(configPath, []byte("title: Existing\n"), 0644); err != nil {
		t.Fatalf("write existing config: %v", err)
	}

	originalForce := initForce
	initForce = true
	defer func() { initForce = originalForce }()

	result := createSiteConfig()
	if result.status != "done" {
		t.Fatalf("expected status 'done', got %q: %s", result.status, result.message)
	}
}

func TestCreateProjectDirs(t *testing.T) {
	tempDir := overrideInitDir(t)

	result := createProjectDirs()
	if result.status != "done" {
		t.Fatalf("expected status 'done', got %q: %s", result.status, result.message)
	}

	for _, sub := range []string{
		"content",
		filepath.Join(".sitegen", "themes"),
		filepath.Join(".sitegen", "sheets"),
		filepath.Join(".sitegen", "templates"),
	} {
		info, err := os.Stat(filepath.Join(tempDir, sub))
		if err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", sub)
		}
	}
}
