package alert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CommandNotifier implements ports.Notifier by handing the failure off to
// an external program (the mail/curl glue lives outside the core). The
// triggering error arrives in the POSTER_ERROR environment variable and
// the accumulated log lines on stdin.
type CommandNotifier struct {
	command string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCommandNotifier creates a notifier that runs command via the shell.
func NewCommandNotifier(command string, logger *zap.Logger) *CommandNotifier {
	return &CommandNotifier{
		command: command,
		timeout: 30 * time.Second,
		logger:  logger.Named("alert"),
	}
}

// Notify runs the configured command.
func (n *CommandNotifier) Notify(ctx context.Context, runErr error, logTail []string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", n.command)
	cmd.Env = append(os.Environ(), "POSTER_ERROR="+runErr.Error())
	cmd.Stdin = strings.NewReader(strings.Join(logTail, "\n"))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("alert command failed: %w, stderr: %s", err, stderr.String())
	}
	n.logger.Info("Alert dispatched", zap.String("error", runErr.Error()), zap.Int("log_lines", len(logTail)))
	return nil
}

// NoopNotifier is used when no alert command is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, runErr error, logTail []string) error {
	return nil
}
