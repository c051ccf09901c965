package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ScriptHandler runs an external script through an interpreter. The
// caller's raw command text is passed as the script's first argument
// so one script can serve several related commands.
type ScriptHandler struct {
	interpreter string
	path        string
	logger      Logger
}

// NewScriptHandler creates a handler for the script at path, invoked
// via the given interpreter (for example "python3" or "/bin/sh").
func NewScriptHandler(interpreter, path string) *ScriptHandler {
	return &ScriptHandler{
		interpreter: interpreter,
		path:        path,
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the handler.
func (h *ScriptHandler) SetLogger(logger Logger) {
	h.logger = logger
}

// Path returns the script path.
func (h *ScriptHandler) Path() string {
	return h.path
}

// Invoke runs the script and returns its combined output as the
// result message. When ctx expires, the script's whole process group
// is killed so stray children do not outlive the job.
func (h *ScriptHandler) Invoke(ctx context.Context, commandText string) Result {
	if _, err := os.Stat(h.path); err != nil {
		return Result{Message: fmt.Sprintf("script not found: %s", h.path)}
	}

	cmd := exec.Command(h.interpreter, h.path, commandText) //nolint:gosec // Interpreter and path come from validated configuration.

	// New process group so a timeout can take out the script's
	// children along with the script itself.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		return Result{Message: fmt.Sprintf("failed to start script: %v", err)}
	}

	exitCh := make(chan error, 1)
	go func() {
		exitCh <- cmd.Wait()
	}()

	select {
	case err := <-exitCh:
		message := strings.TrimSpace(output.String())
		if err != nil {
			h.logger.Warn("script exited with error",
				"script", h.path,
				"error", err,
			)
			if message == "" {
				message = err.Error()
			}
			return Result{Message: message}
		}
		if message == "" {
			message = "done"
		}
		return Result{OK: true, Message: message}

	case <-ctx.Done():
		pid := cmd.Process.Pid
		h.logger.Warn("script deadline reached, killing process group",
			"script", h.path,
			"pid", pid,
		)
		// Negative PID signals the whole group created via Setpgid.
		if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
			h.logger.Error("failed to kill process group",
				"script", h.path,
				"pid", pid,
				"error", err,
			)
		}
		<-exitCh
		return Result{Message: "cancelled"}
	}
}
