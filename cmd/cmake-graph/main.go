package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/cmake-graph/pkg/cmakeapi"
	"github.com/ritzau/cmake-graph/pkg/config"
	"github.com/ritzau/cmake-graph/pkg/dot"
	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
	"github.com/ritzau/cmake-graph/pkg/output"
	"github.com/ritzau/cmake-graph/pkg/render"
	"github.com/ritzau/cmake-graph/pkg/watcher"
	"github.com/ritzau/cmake-graph/pkg/web"
)

const usage = `cmake-graph - condensed dependency graphs from the CMake File API

Usage:
  cmake-graph setup          Write the File API query into the build tree
  cmake-graph [graph]        Transform the current reply into a graph

Run cmake-graph --help for flags.
`

func main() {
	f := pflag.NewFlagSet("cmake-graph", pflag.ExitOnError)
	f.StringP("build", "B", "./build/", "Path to the CMake build tree")
	f.StringP("output", "o", "cmake-graph.dot", "Output file")
	f.String("format", "dot", "Output format: dot, svg, png")
	f.String("configuration", "", "Configuration name (default: first in the reply)")
	f.Int("threshold", config.DefaultFrequentThreshold, "Usage count above which a dependency is condensed")
	f.String("skip-types", "", "Regexp of target types to hide (e.g. UTILITY)")
	f.String("skip-names", "", "Regexp of target names to hide")
	f.Bool("per-project", true, "Collapse full-project dependence into one edge per project")
	f.String("rankdir", "", "Graphviz rankdir (e.g. LR)")
	f.Bool("watch", false, "Rebuild the graph whenever CMake writes a new reply")
	f.Bool("web", false, "Serve the graph over HTTP with live updates")
	f.Int("port", 8080, "Port for the web server (only used with --web)")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fmt.Fprintln(os.Stderr, f.FlagUsages())
	}
	if err := f.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.SetVerbosity(cfg.VerboseCnt)

	command := "graph"
	if f.NArg() > 0 {
		command = f.Arg(0)
	}

	switch command {
	case "setup":
		err = runSetup(cfg)
	case "graph":
		err = runGraph(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSetup(cfg *config.Config) error {
	if err := cmakeapi.SetupQuery(cfg.Build); err != nil {
		return err
	}
	fmt.Printf("Query written. Re-run cmake in %s to generate a reply.\n", cfg.Build)
	return nil
}

func runGraph(cfg *config.Config) error {
	if !cfg.Watch && !cfg.WebMode {
		res, err := buildOnce(cfg)
		if err != nil {
			return err
		}
		if err := writeOutput(cfg, res); err != nil {
			return err
		}
		output.PrintGraphReport(cfg.Build, res)
		return nil
	}

	return runLoop(cfg)
}

// runLoop drives watch and web mode: one initial build, then a rebuild per
// debounced reply change until interrupted.
func runLoop(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var server *web.Server
	if cfg.WebMode {
		server = web.NewServer()
		go func() {
			if err := server.Start(cfg.Port); err != nil {
				logging.Fatal("web server failed", "error", err)
			}
		}()
		go openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
	}

	rebuild := func() {
		if server != nil {
			server.PublishBuildStatus("building", "transforming reply")
		}
		res, err := buildOnce(cfg)
		if err != nil {
			logging.Error("rebuild failed", "error", err)
			if server != nil {
				server.PublishBuildStatus("error", err.Error())
			}
			return
		}
		if err := writeOutput(cfg, res); err != nil {
			logging.Error("failed to write output", "error", err)
			return
		}
		if server != nil {
			svg, err := dot.RenderSVG(ctx, res.DOT)
			if err != nil {
				logging.Error("failed to render SVG", "error", err)
			}
			server.SetResult(res, svg)
			server.PublishBuildStatus("ready", fmt.Sprintf("%d targets", len(res.Snapshot.Targets)))
			server.PublishGraphUpdate()
		}
	}

	rebuild()

	replyDir, err := cmakeapi.ReplyDir(cfg.Build)
	if err != nil {
		return err
	}
	w, err := watcher.NewReplyWatcher(replyDir)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(w.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-debouncer.Output():
			if !ok {
				return nil
			}
			logging.Info("reply changed, rebuilding", "files", len(event.Paths))
			rebuild()
		}
	}
}

// buildOnce runs the full pipeline: reply discovery, codemodel load, snapshot
// construction, graph transform.
func buildOnce(cfg *config.Config) (*render.Result, error) {
	replyDir, err := cmakeapi.ReplyDir(cfg.Build)
	if err != nil {
		return nil, err
	}

	cm, err := cmakeapi.LoadCodemodel(replyDir)
	if err != nil {
		return nil, err
	}

	conf, err := pickConfiguration(cm, cfg.Configuration)
	if err != nil {
		return nil, err
	}

	in, err := model.Load(replyDir, conf)
	if err != nil {
		return nil, err
	}

	snapshot, err := model.Build(in, model.Options{PerProject: cfg.PerProject})
	if err != nil {
		return nil, err
	}

	return render.Run(snapshot, render.Config{
		FrequentThreshold: cfg.FrequentThreshold,
		SkipTypes:         cfg.SkipTypes,
		SkipNames:         cfg.SkipNames,
		RankDir:           cfg.RankDir,
	})
}

func pickConfiguration(cm *cmakeapi.Codemodel, name string) (cmakeapi.Configuration, error) {
	if len(cm.Configurations) == 0 {
		return cmakeapi.Configuration{}, fmt.Errorf("codemodel has no configurations")
	}
	if name == "" {
		return cm.Configurations[0], nil
	}
	var names []string
	for _, conf := range cm.Configurations {
		if conf.Name == name {
			return conf, nil
		}
		names = append(names, conf.Name)
	}
	return cmakeapi.Configuration{}, fmt.Errorf("configuration %q not found (have: %s)",
		name, strings.Join(names, ", "))
}

func writeOutput(cfg *config.Config, res *render.Result) error {
	var data []byte
	var err error

	switch cfg.Format {
	case "dot":
		data = []byte(res.DOT)
	case "svg":
		data, err = dot.RenderSVG(context.Background(), res.DOT)
	case "png":
		data, err = dot.RenderPNG(context.Background(), res.DOT)
	default:
		return fmt.Errorf("unknown format %q (want dot, svg or png)", cfg.Format)
	}
	if err != nil {
		return err
	}

	if cfg.Output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logging.Info("wrote graph", "path", cfg.Output, "format", cfg.Format, "bytes", len(data))
	return nil
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
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Debug("could not open browser", "error", err)
	}
}
