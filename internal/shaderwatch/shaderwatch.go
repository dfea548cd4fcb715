// Package shaderwatch reports edits to shader sources in a directory.
package shaderwatch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"glscene/internal/logx"

	"github.com/fsnotify/fsnotify"
)

// Extensions lists the file extensions treated as shader sources
var Extensions = []string{".vert", ".frag"}

// Watcher calls onChange with the path of every shader source written,
// created or renamed in a directory. onChange runs on the watcher's
// goroutine and must not touch GL state.
type Watcher struct {
	w        *fsnotify.Watcher
	log      *slog.Logger
	onChange func(path string)
	done     chan struct{}
	once     sync.Once
}

// Watch starts watching dir. A nil logger uses slog.Default.
func Watch(dir string, onChange func(path string), log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("error watching %s: %w", dir, err)
	}

	w := &Watcher{
		w:        fw,
		log:      logx.OrDefault(log),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !IsShader(event.Name) {
				continue
			}
			w.log.Debug("shader changed", "path", event.Name, "op", event.Op.String())
			w.onChange(event.Name)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Error("shader watcher error", "error", err)
		}
	}
}

// IsShader reports whether path has a shader source extension
func IsShader(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Close stops the watcher and waits for its goroutine. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.w.Close()
		<-w.done
	})
	return err
}
