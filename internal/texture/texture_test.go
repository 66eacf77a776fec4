package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploader hands out increasing texture names
type fakeUploader struct {
	mu       sync.Mutex
	next     uint32
	uploads  int
	released []uint32
	faces    map[uint32][]*image.RGBA
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{faces: make(map[uint32][]*image.RGBA)}
}

func (f *fakeUploader) Upload(h *Handle, faces []*image.RGBA) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.uploads++
	f.faces[f.next] = faces
	return f.next, nil
}

func (f *fakeUploader) Release(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, id)
}

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// drain processes results until the loader has nothing in flight
func drain(t *testing.T, l *Loader, up Uploader) {
	t.Helper()
	require.Eventually(t, func() bool {
		l.ProcessResults(up)
		return l.Pending() == 0
	}, 5*time.Second, time.Millisecond)
}

func TestLoadReturnsPlaceholderImmediately(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 4, 4, color.RGBA{255, 0, 0, 255})

	l := NewLoader(root, 2, 0)
	defer l.Shutdown()

	h := l.Load("a.png")
	// nothing uploads until ProcessResults runs on the render thread
	assert.Equal(t, uint32(0), h.ID())
	assert.False(t, h.Ready())

	up := newFakeUploader()
	drain(t, l, up)
	assert.True(t, h.Ready())
	assert.NotZero(t, h.ID())
	w, ht := h.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, ht)
}

func TestFailedLoadIsIsolated(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "door", "color.png"), 2, 2, color.RGBA{0, 255, 0, 255})
	writePNG(t, filepath.Join(root, "door", "normal.png"), 2, 2, color.RGBA{128, 128, 255, 255})

	l := NewLoader(root, 3, 0)
	defer l.Shutdown()

	good1 := l.Load("door/color.png")
	missing := l.Load("door/height.png")
	good2 := l.Load("door/normal.png")

	up := newFakeUploader()
	drain(t, l, up)

	assert.Equal(t, StateReady, good1.State())
	assert.Equal(t, StateReady, good2.State())
	assert.Equal(t, StateFailed, missing.State())
	assert.Error(t, missing.Err())
	assert.Equal(t, uint32(0), missing.ID())
	assert.Equal(t, 2, up.uploads)
}

// failingUploader rejects one file and uploads the rest
type failingUploader struct {
	*fakeUploader
	reject string
}

func (f failingUploader) Upload(h *Handle, faces []*image.RGBA) (uint32, error) {
	if h.Paths[0] == f.reject {
		return 0, errors.New("gl error 0x505 during texture upload")
	}
	return f.fakeUploader.Upload(h, faces)
}

func TestUploadErrorFailsOnlyThatHandle(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "big.png"), 8, 8, color.RGBA{1, 1, 1, 255})
	writePNG(t, filepath.Join(root, "ok.png"), 2, 2, color.RGBA{2, 2, 2, 255})

	l := NewLoader(root, 2, 0)
	defer l.Shutdown()

	big := l.Load("big.png")
	ok := l.Load("ok.png")

	up := failingUploader{fakeUploader: newFakeUploader(), reject: filepath.Join(root, "big.png")}
	drain(t, l, up)

	assert.Equal(t, StateFailed, big.State())
	assert.ErrorContains(t, big.Err(), "texture upload")
	assert.Zero(t, big.ID())
	assert.True(t, ok.Ready())
	assert.Equal(t, 1, up.uploads)
}

func TestLoadIsCached(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "g.png"), 3, 1, color.RGBA{10, 20, 30, 255})

	l := NewLoader(root, 1, 0)
	defer l.Shutdown()

	a := l.Load("g.png")
	b := l.Load("g.png")
	c := l.Load("g.png", WithNearest())
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, FilterNearest, c.Sampling.MagFilter)
	assert.False(t, c.Sampling.Mipmaps)
	assert.Len(t, l.Handles(), 2)

	drain(t, l, newFakeUploader())
}

func TestLoadCube(t *testing.T) {
	root := t.TempDir()
	var faces [6]string
	for i, n := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		faces[i] = filepath.Join("env", n+".png")
		writePNG(t, filepath.Join(root, faces[i]), 8, 8, color.RGBA{uint8(i * 40), 0, 0, 255})
	}

	l := NewLoader(root, 2, 0)
	defer l.Shutdown()

	h := l.LoadCube(faces)
	assert.Equal(t, TargetCube, h.Target)
	assert.Equal(t, WrapClamp, h.Sampling.Wrap)

	up := newFakeUploader()
	drain(t, l, up)
	require.True(t, h.Ready())
	assert.Len(t, up.faces[h.ID()], 6)
}

func TestLoadCubeMismatchedFacesFails(t *testing.T) {
	root := t.TempDir()
	var faces [6]string
	for i := range faces {
		faces[i] = filepath.Join("env", string(rune('a'+i))+".png")
		size := 8
		if i == 3 {
			size = 4
		}
		writePNG(t, filepath.Join(root, faces[i]), size, size, color.RGBA{0, 0, 0, 255})
	}

	l := NewLoader(root, 2, 0)
	defer l.Shutdown()

	h := l.LoadCube(faces)
	drain(t, l, newFakeUploader())
	assert.Equal(t, StateFailed, h.State())
}

func TestReloadReplacesTexture(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "m.png")
	writePNG(t, path, 2, 2, color.RGBA{1, 2, 3, 255})

	l := NewLoader(root, 1, 0)
	defer l.Shutdown()

	up := newFakeUploader()
	h := l.Load("m.png")
	drain(t, l, up)
	first := h.ID()

	writePNG(t, path, 4, 4, color.RGBA{9, 9, 9, 255})
	assert.Equal(t, 1, l.Reload("m.png"))
	// the old texture stays bound while the new one decodes
	assert.Equal(t, first, h.ID())

	drain(t, l, up)
	assert.NotEqual(t, first, h.ID())
	assert.Equal(t, []uint32{first}, up.released)
	w, _ := h.Size()
	assert.Equal(t, 4, w)
}

func TestMissingFileResolvesAfterReload(t *testing.T) {
	root := t.TempDir()
	l := NewLoader(root, 1, 0)
	defer l.Shutdown()

	up := newFakeUploader()
	h := l.Load("late.png")
	drain(t, l, up)
	require.Equal(t, StateFailed, h.State())

	writePNG(t, filepath.Join(root, "late.png"), 2, 2, color.RGBA{255, 255, 255, 255})
	l.Reload("late.png")
	drain(t, l, up)
	assert.True(t, h.Ready())
	assert.NoError(t, h.Err())
}

func TestWatchReloadsChangedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "w.png")
	writePNG(t, path, 2, 2, color.RGBA{0, 0, 0, 255})

	l := NewLoader(root, 1, 0)
	defer l.Shutdown()

	up := newFakeUploader()
	h := l.Load("w.png")
	drain(t, l, up)
	require.NoError(t, l.Watch())

	writePNG(t, path, 2, 2, color.RGBA{255, 0, 0, 255})
	require.Eventually(t, func() bool {
		return h.Generation() > 0
	}, 5*time.Second, 5*time.Millisecond)
	drain(t, l, up)
	assert.True(t, h.Ready())
}

func TestDecodeFlipsAndScales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip.png")
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255}) // top
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255}) // bottom
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	flipped, err := decodeFile(path, 0, true)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, flipped.RGBAAt(0, 0))

	plain, err := decodeFile(path, 0, false)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, plain.RGBAAt(0, 0))

	big := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, big, 64, 32, color.RGBA{5, 5, 5, 255})
	small, err := decodeFile(big, 16, false)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 8), small.Rect.Size())
}
