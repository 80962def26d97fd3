package site

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// OutputPath maps a permalink to a slash-separated file path relative to the
// output directory. "/x/y/" becomes "x/y/index.html"; a permalink with a file
// extension ("/404.html", "/feed.xml") is used as is; "/x" becomes "x/index.html".
func OutputPath(permalink string) (string, error) {
	p := strings.TrimPrefix(path.Clean("/"+permalink), "/")
	switch {
	case p == "":
		p = "index.html"
	case strings.HasSuffix(permalink, "/") || path.Ext(p) == "":
		p = path.Join(p, "index.html")
	}
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", fmt.Errorf("permalink %q escapes the output directory", permalink)
	}
	return p, nil
}

// writeOutput atomically writes data to rel (slash-separated) under the output directory.
func writeOutput(bs *BuildState, rel string, data []byte) error {
	return writeOutputFrom(bs, rel, bytes.NewReader(data))
}

func writeOutputFrom(bs *BuildState, rel string, r io.Reader) error {
	if bs.Config.OutputDir == "" {
		return errNoOutputDir
	}
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return fmt.Errorf("output path %q escapes the output directory", rel)
	}
	full := filepath.Join(bs.Config.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return serrors.FilesystemFailed("create directory", filepath.Dir(full), err)
	}
	if err := atomic.WriteFile(full, r); err != nil {
		return serrors.FilesystemFailed("write output", full, err)
	}
	bs.Report.addOutput(rel)
	return nil
}
