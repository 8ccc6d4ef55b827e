package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brace-lang/brace/internal/config"
	"github.com/brace-lang/brace/runtime/engine"
	"github.com/brace-lang/brace/runtime/lexer"
	"github.com/brace-lang/brace/runtime/parser"
	"github.com/brace-lang/brace/runtime/renderer"
)

// usageError marks failures caused by bad invocation rather than bad
// templates or I/O.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func exitCodeFor(err error) int {
	var uerr *usageError
	if errors.As(err, &uerr) {
		return exitUsage
	}

	var perr *parser.Error
	var lerr *lexer.Error
	var inf *renderer.ImportNotFoundError
	if errors.As(err, &perr) || errors.As(err, &lerr) || errors.As(err, &inf) {
		return exitRenderError
	}
	return exitIOError
}

func newRenderCommand() *cobra.Command {
	var (
		dataFiles []string
		importDir string
		outFile   string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template file to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templatePath := args[0]

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, cfgPath, err := config.FindAndLoad(cwd)
			if err != nil {
				return err
			}
			root := config.ProjectRoot(cfgPath)

			// Flags win over config, config over built-in defaults.
			if importDir == "" && cfg.Render.ImportDir != "" {
				importDir = resolveAgainst(root, cfg.Render.ImportDir)
			}
			if len(dataFiles) == 0 {
				for _, f := range cfg.Render.Data {
					dataFiles = append(dataFiles, resolveAgainst(root, f))
				}
			}
			if outFile == "" {
				outFile = cfg.Render.Out
			}

			job := &renderJob{
				templatePath: templatePath,
				dataFiles:    dataFiles,
				importDir:    importDir,
				outFile:      outFile,
			}

			if watch {
				return job.watch(cmd.Context())
			}
			return job.run(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVarP(&dataFiles, "data", "d", nil, "YAML or JSON data file (repeatable, later files override)")
	cmd.Flags().StringVarP(&importDir, "import-dir", "i", "", "Directory relative imports resolve against (default: template's directory)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the template or import directory changes")

	return cmd
}

type renderJob struct {
	templatePath string
	dataFiles    []string
	importDir    string
	outFile      string
}

func (j *renderJob) run(ctx context.Context) error {
	data, err := loadData(j.dataFiles)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if j.importDir != "" {
		opts = append(opts, engine.WithImportDir(j.importDir))
	}

	out, err := engine.New(opts...).RenderFile(ctx, j.templatePath, data)
	if err != nil {
		return err
	}

	if j.outFile != "" {
		return os.WriteFile(j.outFile, []byte(out), 0o644)
	}
	_, err = fmt.Print(out)
	return err
}

// watch renders once, then re-renders on filesystem changes. Render errors
// in watch mode are reported and watching continues.
func (j *renderJob) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(j.templatePath)); err != nil {
		return err
	}
	if j.importDir != "" {
		if err := watcher.Add(j.importDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	for _, f := range j.dataFiles {
		if err := watcher.Add(filepath.Dir(f)); err != nil {
			return err
		}
	}

	render := func() {
		if err := j.run(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	render()

	debounce := time.NewTimer(0)
	<-debounce.C
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			dirty = true
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "Watch error:", err)

		case <-debounce.C:
			if dirty {
				dirty = false
				render()
			}
		}
	}
}

// loadData decodes each data file as YAML (JSON parses as a YAML subset)
// and merges top-level keys in order, later files overriding earlier ones.
func loadData(files []string) (map[string]any, error) {
	data := map[string]any{}
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, &usageError{msg: fmt.Sprintf("data file %s: %v", file, err)}
		}
		for k, v := range doc {
			data[k] = v
		}
	}
	return data, nil
}

func resolveAgainst(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
