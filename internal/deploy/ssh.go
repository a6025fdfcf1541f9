package deploy

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	xssh "golang.org/x/crypto/ssh"
)

const defaultSSHTimeout = 15 * time.Second

// SSHTarget deploys over SSH by streaming a tar archive of the built tree to
// the remote host and swapping it into the remote directory.
type SSHTarget struct {
	Options ConnectionOptions
	Dir     string
	Prompt  HostKeyPrompt
	Logger  zerolog.Logger
}

// NewSSHTarget creates an SSHTarget, resolving host aliases against the
// user's ssh config.
func NewSSHTarget(opts ConnectionOptions, dir string, prompt HostKeyPrompt, logger zerolog.Logger) (*SSHTarget, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("remote directory is required")
	}

	resolved, err := ApplySSHConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("resolve ssh config: %w", err)
	}
	if resolved.Port == 0 {
		resolved.Port = 22
	}
	if resolved.Timeout == 0 {
		resolved.Timeout = defaultSSHTimeout
	}

	return &SSHTarget{Options: resolved, Dir: dir, Prompt: prompt, Logger: logger}, nil
}

// Description implements Target.
func (t *SSHTarget) Description() string {
	return fmt.Sprintf("%s@%s:%s", t.Options.User, t.Options.Host, t.Dir)
}

// Deploy uploads sourceDir to a remote staging directory, then swaps it into
// place with a single mv so the live tree is never partial.
func (t *SSHTarget) Deploy(ctx context.Context, sourceDir string) error {
	client, err := t.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	staging := t.Dir + ".staging"

	if err := t.uploadTree(ctx, client, sourceDir, staging); err != nil {
		t.runQuiet(client, fmt.Sprintf("rm -rf %s", shellQuote(staging)))
		return err
	}

	swap := fmt.Sprintf("rm -rf %s && mv %s %s",
		shellQuote(t.Dir), shellQuote(staging), shellQuote(t.Dir))
	if err := t.run(ctx, client, swap); err != nil {
		t.runQuiet(client, fmt.Sprintf("rm -rf %s", shellQuote(staging)))
		return fmt.Errorf("activate remote deployment: %w", err)
	}

	t.Logger.Info().
		Str("host", t.Options.Host).
		Str("dir", t.Dir).
		Msg("site deployed over ssh")

	return nil
}

func (t *SSHTarget) dial() (*xssh.Client, error) {
	auth, err := t.authMethods()
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	knownHostsPath := filepath.Join(home, ".ssh", "known_hosts")
	hostKeyCallback, err := buildKnownHostsCallback([]string{knownHostsPath}, knownHostsPath, t.Prompt, t.Logger)
	if err != nil {
		return nil, err
	}

	config := &xssh.ClientConfig{
		User:            t.Options.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         t.Options.Timeout,
	}

	addr := net.JoinHostPort(t.Options.Host, strconv.Itoa(t.Options.Port))
	client, err := xssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return client, nil
}

func (t *SSHTarget) authMethods() ([]xssh.AuthMethod, error) {
	paths := []string{t.Options.KeyPath}
	if t.Options.KeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		paths = []string{
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		}
	}

	var signers []xssh.Signer
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && t.Options.KeyPath == "" {
				continue
			}
			return nil, fmt.Errorf("read private key %s: %w", p, err)
		}
		signer, err := xssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", p, err)
		}
		signers = append(signers, signer)
	}

	if len(signers) == 0 {
		return nil, fmt.Errorf("no usable ssh private key found")
	}
	return []xssh.AuthMethod{xssh.PublicKeys(signers...)}, nil
}

// uploadTree streams a tar archive of sourceDir into a tar extract on the
// remote side, landing the files under the staging directory.
func (t *SSHTarget) uploadTree(ctx context.Context, client *xssh.Client, sourceDir, staging string) error {
	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	reader, writer := io.Pipe()
	session.Stdin = reader

	cmd := fmt.Sprintf("rm -rf %s && mkdir -p %s && tar -x -C %s",
		shellQuote(staging), shellQuote(staging), shellQuote(staging))

	return streamExtract(ctx, session, reader, writer, cmd, sourceDir)
}

// extractSession is the part of an ssh session streamExtract drives. The
// session's stdin must already be wired to the pipe reader.
type extractSession interface {
	Start(cmd string) error
	Wait() error
}

// streamExtract runs the remote extract command while archiving sourceDir
// into the pipe. When the remote side exits, the reader is closed so the
// archiver unblocks even if the remote stopped consuming mid-stream.
func streamExtract(ctx context.Context, session extractSession, reader *io.PipeReader, writer *io.PipeWriter, cmd, sourceDir string) error {
	if err := session.Start(cmd); err != nil {
		reader.Close()
		return fmt.Errorf("start remote extract: %w", err)
	}

	archiveErr := make(chan error, 1)
	go func() {
		archiveErr <- writeTar(ctx, writer, sourceDir)
	}()

	waitErr := session.Wait()
	reader.CloseWithError(waitErr)

	archErr := <-archiveErr
	if waitErr != nil {
		return fmt.Errorf("remote extract failed: %w", waitErr)
	}
	if archErr != nil {
		return fmt.Errorf("stream site tree: %w", archErr)
	}
	return nil
}

// writeTar archives every regular file under sourceDir and closes the pipe
// writer, propagating any archive error to the reader.
func writeTar(ctx context.Context, writer *io.PipeWriter, sourceDir string) error {
	tw := tar.NewWriter(writer)

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(tw, f)
		f.Close()
		return copyErr
	})

	if err == nil {
		err = tw.Close()
	} else {
		tw.Close()
	}
	writer.CloseWithError(err)
	return err
}

func (t *SSHTarget) run(ctx context.Context, client *xssh.Client, cmd string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	if output, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (t *SSHTarget) runQuiet(client *xssh.Client, cmd string) {
	session, err := client.NewSession()
	if err != nil {
		return
	}
	defer session.Close()
	if err := session.Run(cmd); err != nil {
		t.Logger.Debug().Err(err).Str("cmd", cmd).Msg("cleanup command failed")
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
