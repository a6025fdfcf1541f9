package deploy

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSSHConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write ssh config: %v", err)
	}
	return path
}

func TestApplySSHConfigFileResolvesAlias(t *testing.T) {
	path := writeSSHConfig(t, `
Host pages
    HostName pages.example.com
    User deploy
    Port 2222

Host other
    HostName other.example.com
`)

	opts, err := applySSHConfigFile(ConnectionOptions{Host: "pages"}, path)
	if err != nil {
		t.Fatalf("applySSHConfigFile: %v", err)
	}

	if opts.Host != "pages.example.com" {
		t.Fatalf("unexpected host: %q", opts.Host)
	}
	if opts.User != "deploy" {
		t.Fatalf("unexpected user: %q", opts.User)
	}
	if opts.Port != 2222 {
		t.Fatalf("unexpected port: %d", opts.Port)
	}
}

func TestApplySSHConfigFileExplicitOptionsWin(t *testing.T) {
	path := writeSSHConfig(t, `
Host pages
    User deploy
    Port 2222
`)

	opts, err := applySSHConfigFile(ConnectionOptions{Host: "pages", User: "admin", Port: 22}, path)
	if err != nil {
		t.Fatalf("applySSHConfigFile: %v", err)
	}

	if opts.User != "admin" {
		t.Fatalf("expected explicit user to win, got %q", opts.User)
	}
	if opts.Port != 22 {
		t.Fatalf("expected explicit port to win, got %d", opts.Port)
	}
}

func TestApplySSHConfigFileWildcardAndNegation(t *testing.T) {
	path := writeSSHConfig(t, `
Host *.example.com !internal.example.com
    User deploy
`)

	opts, err := applySSHConfigFile(ConnectionOptions{Host: "pages.example.com"}, path)
	if err != nil {
		t.Fatalf("applySSHConfigFile: %v", err)
	}
	if opts.User != "deploy" {
		t.Fatalf("expected wildcard match, got user %q", opts.User)
	}

	opts, err = applySSHConfigFile(ConnectionOptions{Host: "internal.example.com"}, path)
	if err != nil {
		t.Fatalf("applySSHConfigFile: %v", err)
	}
	if opts.User != "" {
		t.Fatalf("expected negated host to not match, got user %q", opts.User)
	}
}

func TestApplySSHConfigFileMissingFile(t *testing.T) {
	opts, err := applySSHConfigFile(ConnectionOptions{Host: "pages"}, filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected missing config to be ignored, got %v", err)
	}
	if opts.Host != "pages" {
		t.Fatalf("options changed without a config: %+v", opts)
	}
}
