// Package main implements the taskdeck CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/apiclient"
	"github.com/taskdeck/taskdeck/authclient"
	"github.com/taskdeck/taskdeck/credstore"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/task"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Session expired. Run `taskdeck login` to sign in again.")
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "taskdeck",
	Short:        "Taskdeck - track tasks on a remote task service",
	SilenceUsage: true,
}

// newTransport builds the shared transport from config, environment, and
// the credential store. The environment wins over config files.
func newTransport() (*apiclient.Client, credstore.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, nil, err
	}

	creds, err := credstore.OpenFileStore()
	if err != nil {
		return nil, nil, err
	}

	baseURL := os.Getenv(apiclient.EnvBaseURL)
	if baseURL == "" {
		baseURL = cfg.API.URL
	}

	client := apiclient.New(creds, apiclient.Options{
		BaseURL: baseURL,
		Timeout: cfg.API.TimeoutDuration(),
		Debug:   cfg.API.Debug,
	})
	return client, creds, nil
}

// newEngine builds the synchronization engine, requiring a stored
// credential first so commands fail fast when logged out.
func newEngine() (*task.Engine, error) {
	client, creds, err := newTransport()
	if err != nil {
		return nil, err
	}

	auth := authclient.New(client, creds)
	ok, err := auth.Authenticated()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("not logged in. Run `taskdeck login` first")
	}

	return task.NewEngine(task.NewRepository(client)), nil
}
