package deploy

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrHostKeyRejected is returned when the user declines an unknown host key.
var ErrHostKeyRejected = errors.New("host key rejected")

// HostKeyPrompt asks whether an unknown host key should be trusted.
type HostKeyPrompt func(hostname string, remote net.Addr, key xssh.PublicKey) (bool, error)

// buildKnownHostsCallback returns a host key callback backed by the given
// known_hosts files. Unknown keys are offered to prompt; accepted keys are
// appended to writePath. A nil prompt rejects unknown keys.
func buildKnownHostsCallback(paths []string, writePath string, prompt HostKeyPrompt, logger zerolog.Logger) (xssh.HostKeyCallback, error) {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	var check xssh.HostKeyCallback
	if len(existing) > 0 {
		cb, err := knownhosts.New(existing...)
		if err != nil {
			return nil, fmt.Errorf("load known_hosts: %w", err)
		}
		check = cb
	}

	return func(hostname string, remote net.Addr, key xssh.PublicKey) error {
		if check != nil {
			err := check(hostname, remote, key)
			if err == nil {
				return nil
			}
			var keyErr *knownhosts.KeyError
			if !errors.As(err, &keyErr) || len(keyErr.Want) > 0 {
				// Mismatch against a recorded key is never prompted past.
				return err
			}
		}

		if prompt == nil {
			return fmt.Errorf("%w: %s", ErrHostKeyRejected, hostname)
		}
		accept, err := prompt(hostname, remote, key)
		if err != nil {
			return err
		}
		if !accept {
			return fmt.Errorf("%w: %s", ErrHostKeyRejected, hostname)
		}

		if err := appendKnownHost(writePath, hostname, key); err != nil {
			return fmt.Errorf("record host key: %w", err)
		}
		logger.Info().Str("host", hostname).Msg("host key added to known_hosts")
		return nil
	}, nil
}

func appendKnownHost(path, hostname string, key xssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}
