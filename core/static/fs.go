package static

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

type fsConfig struct {
	stripPrefix  string
	subPath      string
	cacheControl string
}

// FSOption configures FS.
type FSOption func(*fsConfig)

// WithStripPrefix removes prefix from the URL path before lookup, so
// "/assets/app.css" can serve "app.css".
func WithStripPrefix(prefix string) FSOption {
	return func(c *fsConfig) { c.stripPrefix = prefix }
}

// WithSubFS serves only the given directory of the filesystem.
func WithSubFS(path string) FSOption {
	return func(c *fsConfig) { c.subPath = path }
}

// WithCacheControl sets the Cache-Control header on every served file.
func WithCacheControl(value string) FSOption {
	return func(c *fsConfig) { c.cacheControl = value }
}

// FS serves files from fsys, typically an embed.FS. Directory listings are
// disabled. It panics at startup when the sub path does not exist.
func FS[C handler.Context](fsys fs.FS, opts ...FSOption) handler.HandlerFunc[C] {
	cfg := &fsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub path " + cfg.subPath + ": " + err.Error())
		}
		fsys = sub
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}

	var srv http.Handler = http.FileServer(noListing{http.FS(fsys)})
	if cfg.stripPrefix != "" {
		srv = http.StripPrefix(cfg.stripPrefix, srv)
	}

	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			if cfg.cacheControl != "" {
				w.Header().Set("Cache-Control", cfg.cacheControl)
			}
			srv.ServeHTTP(w, r)
			return nil
		}
	}
}

// noListing hides directories that have no index.html.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		index := strings.TrimSuffix(name, "/") + "/index.html"
		idx, err := n.fs.Open(index)
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = idx.Close()
	}
	return f, nil
}
