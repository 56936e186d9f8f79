package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ritzau/jsgraph/pkg/analysis"
	"github.com/ritzau/jsgraph/pkg/config"
	"github.com/ritzau/jsgraph/pkg/logging"
	"github.com/ritzau/jsgraph/pkg/output"
	"github.com/ritzau/jsgraph/pkg/pubsub"
	"github.com/ritzau/jsgraph/pkg/watcher"
	"github.com/ritzau/jsgraph/pkg/web"
)

func run(ctx context.Context, cfg *config.Config, p *prompter) error {
	if cfg.Root == "" {
		root, err := p.askRoot(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: no path given", analysis.ErrInvalidRoot)
			}
			return err
		}
		cfg.Root = root
	}

	publisher := pubsub.NewSSEPublisher()
	defer publisher.Close()

	var progress *output.Progress
	opts := analysis.Options{
		Root:      cfg.Root,
		Workers:   cfg.Workers,
		Publisher: publisher,
	}
	if cfg.Progress && !cfg.JSONLogs {
		progress = output.NewProgress(os.Stderr)
		opts.Progress = progress.Func()
	}
	runner := analysis.NewRunner(opts)

	result, err := scan(ctx, runner, progress, cfg.Output)
	if err != nil {
		return err
	}

	serve := cfg.WebMode
	if !serve {
		switch cfg.Visualize {
		case config.VisualizeYes:
			serve = true
		case config.VisualizeAsk:
			if serve, err = p.confirm(ctx, "Would you like to visualize the knowledge graph?"); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
		}
	}

	if !serve && !cfg.Watch {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var server *web.Server
	if serve {
		server = web.NewServer(publisher)
		server.SetResult(result)
		g.Go(func() error {
			return server.Start(gctx, cfg.Port)
		})
		if cfg.Open {
			url := fmt.Sprintf("http://localhost:%d", cfg.Port)
			time.AfterFunc(300*time.Millisecond, func() { openBrowser(url) })
		}
	}
	if cfg.Watch {
		g.Go(func() error {
			return watch(gctx, runner, progress, cfg.Output, server)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info("Shutting down")
	return nil
}

// scan runs the pipeline once, saves the document and prints the summary
func scan(ctx context.Context, runner *analysis.Runner, progress *output.Progress, outPath string) (*analysis.Result, error) {
	result, err := runner.Run(ctx)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = output.DefaultFilename
	}
	if err := output.NewDocument(result.Graph, result.Report).Save(outPath); err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(outPath)
	output.PrintStats(os.Stdout, result.Report, abs)
	return result, nil
}

// watch re-runs the full scan after every debounced batch of changes
func watch(ctx context.Context, runner *analysis.Runner, progress *output.Progress, outPath string, server *web.Server) error {
	fw, err := watcher.NewFileWatcher(runner.Root())
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		var summary watcher.ChangeSummary
		summary.Add(event)
		// drain the rest of the same flush
		for drained := false; !drained; {
			select {
			case more, ok := <-debouncer.Output():
				if ok {
					summary.Add(more)
				}
				drained = !ok
			default:
				drained = true
			}
		}

		logging.Info("Re-running scan", "reason", summary.Reason())
		result, err := scan(ctx, runner, progress, outPath)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logging.Error("Re-scan failed", "error", err)
			continue
		}
		if server != nil {
			server.SetResult(result)
		}
	}
	return ctx.Err()
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("Cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("Failed to open browser", "error", err)
	}
}
