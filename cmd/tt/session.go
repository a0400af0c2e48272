package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/amonks/tasktrack/client"
	"github.com/amonks/tasktrack/controller"
	"github.com/amonks/tasktrack/internal/config"
	"github.com/amonks/tasktrack/internal/paths"
	"github.com/amonks/tasktrack/task"
)

// session bundles what a command needs to talk to the backend.
type session struct {
	cfg    *config.Config
	api    *client.Client
	ctrl   *controller.Controller
	logger *log.Logger
}

func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

func newLogger(prefix string) *log.Logger {
	if !rootVerbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, prefix, log.LstdFlags)
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger("tt: ")
	api := client.NewClient(cfg.BackendURL(rootBackend), client.Options{Timeout: cfg.Backend.Timeout})
	logger.Printf("using backend %s", api.BaseURL())

	ctrl := controller.New(api, controller.Options{
		Logger:    logger,
		Suggester: api,
	})
	return &session{cfg: cfg, api: api, ctrl: ctrl, logger: logger}, nil
}

// loadAll fetches the unfiltered collection.
func (s *session) loadAll(ctx context.Context) error {
	return s.ctrl.SetFilter(ctx, task.Filter{})
}

// resolve loads the collection and finds the task matching an ID prefix.
func (s *session) resolve(ctx context.Context, prefix string) (task.Task, error) {
	if err := s.loadAll(ctx); err != nil {
		return task.Task{}, err
	}
	return s.ctrl.Resolve(prefix)
}

func (s *session) prefixLengths() map[string]int {
	return task.NewIDIndex(s.ctrl.Tasks()).PrefixLengths()
}
