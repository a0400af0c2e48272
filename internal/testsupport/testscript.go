package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/tasktrack/server"
	"github.com/amonks/tasktrack/task"
)

// ScriptDataFile seeds the script backend when present in the work dir.
const ScriptDataFile = "tasks.jsonl"

var (
	buildOnce sync.Once
	ttPath    string
	buildErr  error
)

// BuildTT builds the tt binary once and returns its path.
func BuildTT(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tt-bin-")
		if err != nil {
			buildErr = err
			return
		}

		ttPath = filepath.Join(binDir, "tt")
		cmd := exec.Command("go", "build", "-o", ttPath, "./cmd/tt")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tt: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return ttPath
}

// SetupScriptEnv builds tt, starts a reference backend for the script, and
// points TASKTRACK_BACKEND_URL at it. A tasks.jsonl file in the script
// archive seeds the backend.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TT", BuildTT(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	storeOpts := server.StoreOptions{}
	seed := filepath.Join(env.WorkDir, ScriptDataFile)
	if _, err := os.Stat(seed); err == nil {
		storeOpts.DataFile = seed
	}
	store, err := server.OpenStore(storeOpts)
	if err != nil {
		return fmt.Errorf("open script store: %w", err)
	}

	srv, err := server.New(server.Options{
		Store:     store,
		Suggester: ScriptSuggester{},
		Logger:    log.New(io.Discard, "", 0),
	})
	if err != nil {
		return err
	}
	backend := httptest.NewServer(srv.Handler())
	env.Defer(backend.Close)

	env.Setenv("TASKTRACK_BACKEND_URL", backend.URL)
	return nil
}

// ScriptSuggester returns one canned suggestion per task.
type ScriptSuggester struct{}

// Suggest implements insight.Suggester.
func (ScriptSuggester) Suggest(_ context.Context, tasks []task.Task) ([]string, error) {
	suggestions := make([]string, 0, len(tasks))
	for _, item := range tasks {
		suggestions = append(suggestions, "Consider: "+item.Title)
	}
	return suggestions, nil
}

// CmdTaskID finds a task by title in a JSON task list and stores its ID in
// an env var.
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
