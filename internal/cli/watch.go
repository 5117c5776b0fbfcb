package cli

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/arthur-debert/presubmit/pkg/changeset"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/arthur-debert/presubmit/pkg/pipeline"
	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: "checks",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := g.resolveRoot()
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(root)
			if err != nil {
				return err
			}
			renderer, err := g.renderer(cfg, root, cmd)
			if err != nil {
				return err
			}
			excl, err := exclusion.Compile(cfg.Exclusions.Patterns)
			if err != nil {
				return err
			}
			p, err := pipeline.FromConfig(cfg, toolrun.NewExecRunner(cfg.Tools.Timeout.Std()))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := newWatcher(root, debounce, excl.Match)
			cmd.Printf(MsgWatching, root)
			return w.run(ctx, func(paths []string) error {
				files, err := changeset.Load(root, paths)
				if err != nil {
					return err
				}
				verdict, err := p.CheckOnUpload(ctx, files, root)
				if err != nil {
					return err
				}
				return renderer.Render(&verdict)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, MsgFlagDebounce)
	return cmd
}

// watcher turns file system events under root into debounced batches of
// changed repository-relative paths
type watcher struct {
	root     string
	debounce time.Duration
	skip     func(rel string) bool
	logger   zerolog.Logger
}

func newWatcher(root string, debounce time.Duration, skip func(string) bool) *watcher {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	return &watcher{
		root:     root,
		debounce: debounce,
		skip:     skip,
		logger:   logging.GetLogger("cli.watch"),
	}
}

// run blocks until ctx is done. Errors from onBatch are logged; watching
// goes on.
func (w *watcher) run(ctx context.Context, onBatch func([]string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.relative(ev.Name)
			if !ok {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Has(fsnotify.Create) {
					if err := w.addTree(fw, ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", rel).Msg("Failed to watch new directory")
					}
				}
				continue
			}
			if w.skip(rel) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)

			w.logger.Debug().Strs("paths", batch).Msg("Checking changed files")
			if err := onBatch(batch); err != nil {
				w.logger.Error().Err(err).Msg("Presubmit run failed")
			}
		}
	}
}

// relative maps an event path to the slash form checks see, rejecting
// paths under .git or outside root. Exclusions apply to files only, since
// an excluded directory may still hold kept files.
func (w *watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if isVCSPath(rel) {
		return "", false
	}
	return rel, true
}

func (w *watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			if _, ok := w.relative(path); !ok {
				return filepath.SkipDir
			}
		}
		if err := fw.Add(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", path)
		}
		return nil
	})
}

func isVCSPath(rel string) bool {
	first, _, _ := strings.Cut(rel, "/")
	return first == ".git"
}
