// Package trigger watches a directory for load run requests.
//
// Dropping a YAML request file into the trigger directory starts one gated
// load run. Requests are consumed strictly one at a time, in the order
// their files appear.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Request describes one requested load run.
type Request struct {
	SecretName       string `yaml:"secret_name"`
	MetadataFolder   string `yaml:"metadata_folder"`
	Runner           string `yaml:"runner"`
	ModelTag         string `yaml:"model_tag"`
	CheatMode        bool   `yaml:"cheat_mode"`
	DryRun           bool   `yaml:"dry_run"`
	WipeDB           bool   `yaml:"wipe_db"`
	Mode             string `yaml:"mode"`
	SplitTransaction bool   `yaml:"split_transaction"`
}

// Watcher watches a trigger directory for request files.
type Watcher struct {
	dir string
	log *slog.Logger
}

// New returns a Watcher for dir.
func New(l *slog.Logger, dir string) *Watcher {
	return &Watcher{dir: dir, log: l}
}

// Watch starts watching the trigger directory.
//
// It returns a channel of parsed requests and a channel for unrecoverable
// watcher errors. Request files already present when watching starts are
// picked up as well. Each request file is renamed with a ".consumed"
// suffix once parsed; malformed files are logged and skipped.
func (w *Watcher) Watch(ctx context.Context) (requests <-chan Request, errors <-chan error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %v", err)
	}

	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("failed to add directory %s to watcher: %v", w.dir, err)
	}
	w.log.Info("Watching trigger directory", "dir", w.dir)

	requestsCh := make(chan Request, 1)
	errorsCh := make(chan error, 1)

	go func() {
		defer close(requestsCh)
		defer close(errorsCh)
		defer watcher.Close()

		// Pick up requests dropped before the watcher started.
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			errorsCh <- fmt.Errorf("could not list trigger directory: %v", err)
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			w.consume(ctx, filepath.Join(w.dir, entry.Name()), requestsCh)
		}

		for {
			select {
			case <-ctx.Done():
				w.log.Info("Trigger watcher stopped")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					errorsCh <- fmt.Errorf("watcher events channel closed unexpectedly")
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				w.consume(ctx, event.Name, requestsCh)
			case err, ok := <-watcher.Errors:
				if !ok {
					errorsCh <- fmt.Errorf("watcher errors channel closed unexpectedly")
					return
				}
				errorsCh <- fmt.Errorf("trigger watcher error: %v", err)
				return
			}
		}
	}()

	return requestsCh, errorsCh, nil
}

// consume parses a request file and emits it, renaming the file so it is
// only ever processed once.
func (w *Watcher) consume(ctx context.Context, path string, out chan<- Request) {
	if !isRequestFile(path) {
		return
	}

	req, err := parseRequest(path)
	if err != nil {
		w.log.Warn("Ignoring malformed request file", "file", path, "error", err)
		return
	}

	if err := os.Rename(path, path+".consumed"); err != nil {
		w.log.Warn("Could not mark request file as consumed", "file", path, "error", err)
		return
	}

	select {
	case <-ctx.Done():
	case out <- req:
		w.log.Info("Accepted load request", "file", path, "runner", req.Runner, "model_tag", req.ModelTag)
	}
}

func isRequestFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func parseRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, err
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return Request{}, err
	}
	if req.SecretName == "" {
		return Request{}, fmt.Errorf("request has no secret_name")
	}
	return req, nil
}
