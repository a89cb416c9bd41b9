package repository

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// FileLister lists local directories. Locations are file: URLs (file:/dir,
// file:///dir, percent-encoded) or plain paths. A leading "~" in a plain
// path expands to the home directory; other relative paths are resolved
// against Root, or the working directory when Root is empty.
type FileLister struct {
	Root string
}

func (l *FileLister) List(ctx context.Context, location string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := l.path(location)
	if err != nil {
		return nil, &ListError{Location: location, Op: "resolve", Err: err}
	}
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ListError{Location: location, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ListError{Location: location, Op: "list", Err: err, Hint: "check directory permissions"}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (l *FileLister) path(location string) (string, error) {
	var p string
	if strings.HasPrefix(strings.ToLower(location), "file:") {
		u, err := url.Parse(location)
		if err != nil {
			return "", err
		}
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
	} else {
		expanded, err := homedir.Expand(location)
		if err != nil {
			return "", err
		}
		p = expanded
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) && l.Root != "" {
		p = filepath.Join(l.Root, p)
	}
	if p == "" {
		p = "."
	}
	return p, nil
}
