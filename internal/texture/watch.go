package texture

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads textures whose files are written or created on disk. A
// texture that failed because its file was missing resolves as soon as the
// file appears.
func (l *Loader) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create asset watcher: %w", err)
	}

	l.mu.Lock()
	if l.watcher != nil {
		l.mu.Unlock()
		w.Close()
		return nil
	}
	l.watcher = w
	for _, h := range l.handles {
		l.watchLocked(h.Paths)
	}
	l.mu.Unlock()

	l.wg.Add(1)
	go l.watchLoop(w)
	return nil
}

// watchLocked adds the parent directories of paths. Caller holds l.mu.
func (l *Loader) watchLocked(paths []string) {
	if l.watcher == nil {
		return
	}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if l.watched[dir] {
			continue
		}
		if err := l.watcher.Add(dir); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("cannot watch asset directory")
			continue
		}
		l.watched[dir] = true
	}
}

func (l *Loader) watchLoop(w *fsnotify.Watcher) {
	defer l.wg.Done()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if n := l.reloadResolved(filepath.Clean(ev.Name)); n > 0 {
				log.Info().Str("file", ev.Name).Int("textures", n).Msg("asset changed, reloading")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("asset watcher error")
		case <-l.ctx.Done():
			return
		}
	}
}
