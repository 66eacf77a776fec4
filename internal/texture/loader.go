package texture

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Uploader turns decoded pixels into a GPU texture. It is only ever called
// from ProcessResults, i.e. on the thread that owns the GL context.
type Uploader interface {
	Upload(h *Handle, faces []*image.RGBA) (uint32, error)
	Release(id uint32)
}

// loadJob is a decode request for one handle
type loadJob struct {
	handle     *Handle
	paths      []string
	generation uint64
}

// loadResult carries decoded faces back to the render thread
type loadResult struct {
	handle     *Handle
	faces      []*image.RGBA
	generation uint64
	err        error
}

// Loader decodes textures on a worker pool and hands them back to the render
// thread for upload. Load never blocks and never fails; errors surface on the
// handle and in the log.
type Loader struct {
	root    string
	maxSize int

	mu      sync.RWMutex
	handles map[string]*Handle
	watcher *fsnotify.Watcher
	watched map[string]bool

	jobs    chan loadJob
	results chan loadResult
	pending atomic.Int64
	decodes singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoader starts workers goroutines resolving relative paths against root
func NewLoader(root string, workers, maxSize int) *Loader {
	workers = max(workers, 1)
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		root:    root,
		maxSize: maxSize,
		handles: make(map[string]*Handle),
		watched: make(map[string]bool),
		jobs:    make(chan loadJob, 64),
		results: make(chan loadResult, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := range workers {
		l.wg.Add(1)
		go l.worker(i)
	}
	return l
}

// Load returns the 2D texture handle for path, starting a decode if this is
// the first request for that path and sampling.
func (l *Loader) Load(path string, opts ...Option) *Handle {
	s := DefaultSampling()
	for _, o := range opts {
		o(&s)
	}
	return l.get(Target2D, []string{l.resolve(path)}, s)
}

// LoadCube returns a cube map handle for the faces +X, -X, +Y, -Y, +Z, -Z
func (l *Loader) LoadCube(faces [6]string, opts ...Option) *Handle {
	s := DefaultSampling()
	s.Wrap = WrapClamp
	for _, o := range opts {
		o(&s)
	}
	paths := make([]string, len(faces))
	for i, f := range faces {
		paths[i] = l.resolve(f)
	}
	return l.get(TargetCube, paths, s)
}

func (l *Loader) get(target Target, paths []string, s Sampling) *Handle {
	key := cacheKey(target, paths, s)

	l.mu.RLock()
	if h, ok := l.handles[key]; ok {
		l.mu.RUnlock()
		return h
	}
	l.mu.RUnlock()

	l.mu.Lock()
	// Double check locking
	if h, ok := l.handles[key]; ok {
		l.mu.Unlock()
		return h
	}
	h := newHandle(target, paths, s)
	l.handles[key] = h
	l.watchLocked(paths)
	l.mu.Unlock()

	l.submit(loadJob{handle: h, paths: paths, generation: h.Generation()})
	return h
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(l.root, path)
}

// submit queues a job without blocking the caller. When the queue is full the
// handoff moves to a goroutine.
func (l *Loader) submit(job loadJob) {
	l.pending.Add(1)
	select {
	case l.jobs <- job:
		return
	default:
	}
	go func() {
		select {
		case l.jobs <- job:
		case <-l.ctx.Done():
			l.pending.Add(-1)
		}
	}()
}

func (l *Loader) worker(id int) {
	defer l.wg.Done()

	for {
		select {
		case job := <-l.jobs:
			res := loadResult{handle: job.handle, generation: job.generation}
			res.faces, res.err = l.decode(job.handle, job.paths)

			select {
			case l.results <- res:
			case <-l.ctx.Done():
				return
			}

		case <-l.ctx.Done():
			return
		}
	}
}

func (l *Loader) decode(h *Handle, paths []string) ([]*image.RGBA, error) {
	flip := h.Target == Target2D
	faces := make([]*image.RGBA, 0, len(paths))
	for _, p := range paths {
		key := fmt.Sprintf("%s|%t|%d", p, flip, l.maxSize)
		v, err, _ := l.decodes.Do(key, func() (any, error) {
			return decodeFile(p, l.maxSize, flip)
		})
		if err != nil {
			return nil, err
		}
		faces = append(faces, v.(*image.RGBA))
	}
	if h.Target == TargetCube {
		if len(faces) != 6 {
			return nil, fmt.Errorf("cube map needs 6 faces, got %d", len(faces))
		}
		size := faces[0].Rect.Size()
		for i, f := range faces[1:] {
			if f.Rect.Size() != size {
				return nil, fmt.Errorf("cube face %d is %v, want %v", i+1, f.Rect.Size(), size)
			}
		}
	}
	return faces, nil
}

// ProcessResults drains finished decodes and uploads them through up. It
// never blocks and returns the number of results handled.
func (l *Loader) ProcessResults(up Uploader) int {
	n := 0
	for {
		select {
		case res := <-l.results:
			l.pending.Add(-1)
			l.apply(res, up)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) apply(res loadResult, up Uploader) {
	h := res.handle
	if res.generation != h.Generation() {
		// superseded by a reload
		return
	}
	if res.err != nil {
		log.Warn().Err(res.err).Strs("paths", h.Paths).Msg("texture load failed")
		h.fail(res.err)
		return
	}
	id, err := up.Upload(h, res.faces)
	if err != nil {
		log.Warn().Err(err).Strs("paths", h.Paths).Msg("texture upload failed")
		h.fail(err)
		return
	}
	size := res.faces[0].Rect.Size()
	if old := h.resolve(id, size.X, size.Y); old != 0 && old != id {
		up.Release(old)
	}
	log.Debug().Strs("paths", h.Paths).Int("w", size.X).Int("h", size.Y).Msg("texture ready")
}

// Reload re-decodes every handle that reads path and returns how many were queued
func (l *Loader) Reload(path string) int {
	return l.reloadResolved(l.resolve(path))
}

func (l *Loader) reloadResolved(full string) int {
	l.mu.RLock()
	var hit []*Handle
	for _, h := range l.handles {
		for _, p := range h.Paths {
			if p == full {
				hit = append(hit, h)
				break
			}
		}
	}
	l.mu.RUnlock()

	for _, h := range hit {
		gen := h.bump()
		l.submit(loadJob{handle: h, paths: h.Paths, generation: gen})
	}
	return len(hit)
}

// Pending returns the number of decodes not yet processed
func (l *Loader) Pending() int {
	return int(l.pending.Load())
}

// Handles returns every handle the loader knows about
func (l *Loader) Handles() []*Handle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Handle, 0, len(l.handles))
	for _, h := range l.handles {
		out = append(out, h)
	}
	return out
}

// Shutdown stops the workers and the asset watcher
func (l *Loader) Shutdown() {
	l.cancel()
	l.wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
}
