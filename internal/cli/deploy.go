package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	xssh "golang.org/x/crypto/ssh"

	"github.com/resumedj/sitegen/internal/db"
	"github.com/resumedj/sitegen/internal/deploy"
	"github.com/resumedj/sitegen/internal/events"
)

var deploySkipBuild bool

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().BoolVar(&deploySkipBuild, "skip-build", false, "deploy the existing output tree without rebuilding")
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the built site",
	Long:  "Build the site and publish the output tree to the configured destination.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		dir, err := ProjectDir()
		if err != nil {
			return err
		}

		target, err := buildDeployTarget(cfg.Deploy.Dest, cfg.Deploy.Host, cfg.Deploy.Port, cfg.Deploy.User, cfg.Deploy.KeyPath, cfg.Deploy.Dir)
		if err != nil {
			return err
		}

		buildID := ""
		contentHash := ""
		if deploySkipBuild {
			if _, err := os.Stat(cfg.OutputDir(dir)); err != nil {
				return &PreflightError{
					Message:  "no built site to deploy",
					Hint:     "--skip-build requires an existing output tree",
					NextStep: "sitegen build",
				}
			}
			buildID, contentHash = resolveExistingBuild(ctx)
		} else {
			manifest, record, err := runBuild(ctx)
			if err != nil {
				return err
			}
			contentHash = manifest.ContentHash
			if record != nil {
				buildID = record.ID
			}
		}

		progress := startProgress(fmt.Sprintf("Deploying to %s", target.Description()))
		deployErr := target.Deploy(ctx, cfg.OutputDir(dir))
		if deployErr != nil {
			progress.Fail(deployErr)
		} else {
			progress.Done()
		}

		recordDeploy(ctx, buildID, target.Description(), contentHash, deployErr)
		if deployErr != nil {
			return deployErr
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, map[string]string{
				"target":       target.Description(),
				"content_hash": contentHash,
			})
		}
		fmt.Fprintf(os.Stdout, "Deployed to %s\n", target.Description())
		return nil
	},
}

// buildDeployTarget selects the deploy target from the configuration. A host
// means SSH; a bare dest means a local copy.
func buildDeployTarget(dest, host string, port int, user, keyPath, remoteDir string) (deploy.Target, error) {
	if strings.TrimSpace(host) != "" {
		return deploy.NewSSHTarget(deploy.ConnectionOptions{
			Host:    host,
			Port:    port,
			User:    user,
			KeyPath: keyPath,
		}, remoteDir, hostKeyPrompt(), logger)
	}
	if strings.TrimSpace(dest) != "" {
		return deploy.NewCopyTarget(dest, logger), nil
	}
	return nil, &PreflightError{
		Message:  "no deploy destination configured",
		Hint:     "Set deploy.dest for a local copy or deploy.host/deploy.dir for SSH in site.yaml",
		NextStep: "sitegen init",
	}
}

// hostKeyPrompt returns an interactive prompt for unknown host keys, or nil
// when prompts are unavailable so unknown keys are rejected.
func hostKeyPrompt() deploy.HostKeyPrompt {
	if IsNonInteractive() {
		return nil
	}
	return func(hostname string, remote net.Addr, key xssh.PublicKey) (bool, error) {
		fmt.Fprintf(os.Stderr, "Unknown host key for %s (%s).\n", hostname, xssh.FingerprintSHA256(key))
		fmt.Fprint(os.Stderr, "Trust this host? [y/N]: ")

		var answer string
		if _, err := fmt.Scanf("%s", &answer); err != nil {
			return false, nil
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}
}

// resolveExistingBuild attaches a deploy of a pre-built tree to the build
// that produced it, so the reported content hash matches the deployed bytes.
func resolveExistingBuild(ctx context.Context) (buildID, contentHash string) {
	database, err := openDatabase(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history database unavailable, deploying unrecorded build")
		return "", ""
	}
	defer database.Close()
	return latestBuildRef(ctx, database)
}

// latestBuildRef returns the most recent build's id and content hash, or a
// timestamped placeholder id when no build has been recorded.
func latestBuildRef(ctx context.Context, database *db.DB) (string, string) {
	if latest, err := db.NewBuildRepository(database).Latest(ctx); err == nil {
		return latest.ID, latest.ContentHash
	}
	return "unrecorded-" + time.Now().UTC().Format("20060102T150405Z"), ""
}

func recordDeploy(ctx context.Context, buildID, target, contentHash string, deployErr error) {
	database, err := openDatabase(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history database unavailable, deploy not recorded")
		return
	}
	defer database.Close()

	if buildID == "" {
		// Deploy of a pre-built tree; attach the event to the latest build.
		id, hash := latestBuildRef(ctx, database)
		buildID = id
		if contentHash == "" {
			contentHash = hash
		}
	}

	eventRepo := db.NewEventRepository(database)
	if deployErr != nil {
		err = events.LogDeployFailed(ctx, eventRepo, buildID, target, deployErr)
	} else {
		err = events.LogDeployCompleted(ctx, eventRepo, buildID, target, contentHash)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record deploy event")
	}
}
