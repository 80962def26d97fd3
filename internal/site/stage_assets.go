package site

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/htmlpost"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// ScriptBundlePath is where scripts_dir is bundled, relative to the output directory.
const ScriptBundlePath = "_assets/js/main.js"

// stagePassthrough copies configured files and directories into the output tree.
// Missing sources are skipped with a warning.
func stagePassthrough(ctx context.Context, bs *BuildState) error {
	srcs := make([]string, 0, len(bs.Config.Passthrough))
	for src := range bs.Config.Passthrough {
		srcs = append(srcs, src)
	}
	slices.Sort(srcs)

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(bs.Config.Passthrough[src])), "/")

		st, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Passthrough source not found", logfields.Path(src))
			continue
		}
		if err != nil {
			return serrors.FilesystemFailed("stat passthrough", src, err)
		}
		if !st.IsDir() {
			if err := copyFile(bs, src, dst); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(src, p)
			if err != nil {
				return err
			}
			return copyFile(bs, p, path.Join(dst, filepath.ToSlash(rel)))
		})
		if err != nil {
			return serrors.FilesystemFailed("copy passthrough", src, err)
		}
	}
	return nil
}

func copyFile(bs *BuildState, src, rel string) error {
	// #nosec G304 -- src comes from the passthrough configuration.
	f, err := os.Open(src)
	if err != nil {
		return serrors.FilesystemFailed("open passthrough", src, err)
	}
	defer func() { _ = f.Close() }()
	return writeOutputFrom(bs, rel, f)
}

func stageHighlightCSS(_ context.Context, bs *BuildState) error {
	var buf bytes.Buffer
	if err := highlight.WriteCSS(&buf, bs.Config.Highlight.Style); err != nil {
		return err
	}
	return writeOutput(bs, filepath.ToSlash(bs.Config.Highlight.CSSPath), buf.Bytes())
}

// stageScripts concatenates every .js file under scripts_dir in path order into
// ScriptBundlePath, minified in production.
func stageScripts(ctx context.Context, bs *BuildState) error {
	dir := bs.Config.ScriptsDir
	if dir == "" {
		return nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".js") {
			files = append(files, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return serrors.FilesystemFailed("scan scripts", dir, err)
	}
	if len(files) == 0 {
		return nil
	}

	var bundle bytes.Buffer
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		// #nosec G304 -- f comes from walking scripts_dir.
		src, err := os.ReadFile(f)
		if err != nil {
			return serrors.FilesystemFailed("read script", f, err)
		}
		bundle.Write(src)
		if !bytes.HasSuffix(src, []byte("\n")) {
			bundle.WriteByte('\n')
		}
	}

	out := bundle.Bytes()
	if bs.Config.IsProduction() {
		out, err = htmlpost.NewMinifier().Script(out)
		if err != nil {
			return serrors.RenderFailed(ScriptBundlePath, err)
		}
	}
	slog.Debug("Bundled scripts", slog.Int("files", len(files)), logfields.Path(ScriptBundlePath))
	return writeOutput(bs, ScriptBundlePath, out)
}
