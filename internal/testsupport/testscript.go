package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/taskdeck/taskdeck/task"
)

var (
	buildOnce    sync.Once
	taskdeckPath string
	buildErr     error
)

// BuildTaskdeck builds the taskdeck binary once and returns its path.
func BuildTaskdeck(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "taskdeck-bin-")
		if err != nil {
			buildErr = err
			return
		}

		taskdeckPath = filepath.Join(binDir, "taskdeck")
		cmd := exec.Command("go", "build", "-o", taskdeckPath, "./cmd/taskdeck")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build taskdeck: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return taskdeckPath
}

// SetupScriptEnv configures the testscript environment: the built binary,
// an isolated home directory, and a fresh fake service per script.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TASKDECK", BuildTaskdeck(t))

	service := NewFakeService()
	env.Defer(service.Close)
	env.Setenv("TASKDECK_API_URL", service.URL())

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "taskdeck"), 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdTaskID finds a task by title in a `task list --json` dump and stores
// its ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE TITLE VAR")
	}

	var items []task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("task with title %q not found", title)
}

// CmdExpireSessions invalidates every token the fake service has issued,
// so the next authenticated request is rejected with 401.
func CmdExpireSessions(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("expiresessions does not support negation")
	}
	if len(args) != 0 {
		ts.Fatalf("usage: expiresessions")
	}

	resp, err := http.Post(ts.Getenv("TASKDECK_API_URL")+"/_control/expire", "", nil)
	if err != nil {
		ts.Fatalf("expire sessions: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		ts.Fatalf("expire sessions: unexpected status %d", resp.StatusCode)
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
