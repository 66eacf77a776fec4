package assembly

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"matcatalog/internal/loop"
	"matcatalog/internal/material"
	"matcatalog/internal/scene"
	"matcatalog/internal/texture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSource hands out unresolved handles and remembers every request
type recordingSource struct {
	paths []string
	cubes int
}

func (r *recordingSource) Load(path string, opts ...texture.Option) *texture.Handle {
	s := texture.DefaultSampling()
	for _, o := range opts {
		o(&s)
	}
	r.paths = append(r.paths, path)
	return &texture.Handle{Target: texture.Target2D, Paths: []string{path}, Sampling: s}
}

func (r *recordingSource) LoadCube(faces [6]string, opts ...texture.Option) *texture.Handle {
	r.cubes++
	return &texture.Handle{Target: texture.TargetCube, Paths: faces[:]}
}

func assemble(t *testing.T, opts Options) *Result {
	t.Helper()
	res, err := Assemble(opts, &recordingSource{}, NewCamera(opts.Variant, 800, 600))
	require.NoError(t, err)
	return res
}

func kinds(objs []*scene.Object) []material.Kind {
	out := make([]material.Kind, len(objs))
	for i, o := range objs {
		out[i] = o.Material.Kind
	}
	return out
}

func TestCatalogOrder(t *testing.T) {
	res := assemble(t, Options{Variant: VariantCatalog})
	assert.Equal(t, []material.Kind{
		material.KindBasic,
		material.KindNormal,
		material.KindMatcap,
		material.KindDepth,
		material.KindLambert,
		material.KindPhong,
		material.KindToon,
		material.KindStandard,
		material.KindPhysical,
		material.KindStandard,
	}, kinds(res.Tracked))
}

func TestObjectCounts(t *testing.T) {
	tests := []struct {
		variant Variant
		want    int
	}{
		{VariantCatalog, 10},
		{VariantGallery, 12},
		{VariantTrio, 12},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			res := assemble(t, Options{Variant: tt.variant})
			assert.Len(t, res.Tracked, tt.want)
			assert.Equal(t, res.Tracked, res.Scene.Objects())
			assert.True(t, res.Scene.Frozen())
		})
	}
}

func TestAssemblyIsDeterministic(t *testing.T) {
	for _, v := range Variants {
		t.Run(string(v), func(t *testing.T) {
			a := assemble(t, Options{Variant: v})
			b := assemble(t, Options{Variant: v})
			require.Len(t, b.Tracked, len(a.Tracked))
			assert.Equal(t, kinds(a.Tracked), kinds(b.Tracked))
			for i := range a.Tracked {
				assert.Equal(t, a.Tracked[i].Name, b.Tracked[i].Name)
				assert.Equal(t, a.Tracked[i].Position, b.Tracked[i].Position)
				// independent runs never share objects
				assert.NotSame(t, a.Tracked[i], b.Tracked[i])
			}
		})
	}
}

func TestLightsRegistered(t *testing.T) {
	res := assemble(t, Options{Variant: VariantCatalog})
	lights := res.Scene.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, AmbientLight, lights[0])
	assert.Equal(t, PointLight, lights[1])
	assert.InDelta(t, 0.5, res.Scene.Ambient()[0], 1e-6)
}

func TestSceneFrozenAfterAssembly(t *testing.T) {
	res := assemble(t, Options{Variant: VariantCatalog})
	err := res.Scene.Add(scene.NewObject("late", nil, nil))
	assert.ErrorIs(t, err, scene.ErrFrozen)
	assert.Len(t, res.Scene.Objects(), 10)
}

func TestShareMaterial(t *testing.T) {
	shared := assemble(t, Options{Variant: VariantTrio, ShareMaterial: true})
	own := assemble(t, Options{Variant: VariantTrio, ShareMaterial: false})

	// three meshes per row
	for row := 0; row < 4; row++ {
		s := shared.Tracked[row*3 : row*3+3]
		assert.Same(t, s[0].Material, s[1].Material)
		assert.Same(t, s[1].Material, s[2].Material)

		o := own.Tracked[row*3 : row*3+3]
		assert.NotSame(t, o[0].Material, o[1].Material)
		assert.NotSame(t, o[1].Material, o[2].Material)
		assert.Equal(t, *o[0].Material, *o[1].Material)
	}
	assert.Equal(t, kinds(shared.Tracked), kinds(own.Tracked))
}

func TestShareMaterialIgnoredByCatalog(t *testing.T) {
	a := assemble(t, Options{Variant: VariantCatalog, ShareMaterial: true})
	b := assemble(t, Options{Variant: VariantCatalog})
	assert.Equal(t, kinds(a.Tracked), kinds(b.Tracked))
	seen := make(map[*material.Material]bool)
	for _, o := range a.Tracked {
		assert.False(t, seen[o.Material], o.Name)
		seen[o.Material] = true
	}
}

func TestTextureRequests(t *testing.T) {
	src := &recordingSource{}
	res, err := Assemble(Options{Variant: VariantCatalog}, src, NewCamera(VariantCatalog, 800, 600))
	require.NoError(t, err)
	assert.Contains(t, src.paths, DoorColorPath)
	assert.Contains(t, src.paths, GradientPath)
	assert.Equal(t, 1, src.cubes)

	toon := res.Tracked[6].Material
	require.NotNil(t, toon.Maps.Gradient)
	assert.Equal(t, texture.FilterNearest, toon.Maps.Gradient.Sampling.MagFilter)
	assert.False(t, toon.Maps.Gradient.Sampling.Mipmaps)

	door := res.Tracked[7].Material
	assert.Len(t, door.Handles(), 6)
	assert.InDelta(t, 0.05, door.DisplacementScale, 1e-6)

	knot := res.Tracked[9].Material
	require.NotNil(t, knot.Maps.Env)
	assert.Equal(t, texture.TargetCube, knot.Maps.Env.Target)
}

func TestUnknownVariant(t *testing.T) {
	_, err := Assemble(Options{Variant: "mosaic"}, &recordingSource{}, NewCamera(VariantCatalog, 1, 1))
	assert.Error(t, err)

	_, err = ParseVariant("mosaic")
	assert.Error(t, err)
	v, err := ParseVariant("trio")
	require.NoError(t, err)
	assert.Equal(t, VariantTrio, v)
}

func TestNilCamera(t *testing.T) {
	_, err := Assemble(Options{}, &recordingSource{}, nil)
	assert.Error(t, err)
}

func TestNilTextureSource(t *testing.T) {
	var res *Result
	var err error
	assert.NotPanics(t, func() {
		res, err = Assemble(Options{}, nil, NewCamera(VariantCatalog, 800, 600))
	})
	assert.ErrorContains(t, err, "texture source")
	assert.Nil(t, res)
}

func TestDoorColorMapOverride(t *testing.T) {
	src := &recordingSource{}
	res, err := Assemble(Options{Variant: VariantGallery, DoorColorMap: DoorAOPath}, src, NewCamera(VariantGallery, 800, 600))
	require.NoError(t, err)
	assert.NotContains(t, src.paths, DoorColorPath)

	door := res.Tracked[7].Material
	assert.Equal(t, []string{DoorAOPath}, door.Maps.Color.Paths)
	assert.Equal(t, []string{DoorAOPath}, door.Maps.AO.Paths)
	alpha := res.Tracked[10].Material
	assert.Equal(t, []string{DoorAOPath}, alpha.Maps.Color.Paths)

	// empty keeps the default map
	res = assemble(t, Options{Variant: VariantCatalog})
	assert.Equal(t, []string{DoorColorPath}, res.Tracked[7].Material.Maps.Color.Paths)
}

type fakeUploader struct{ next uint32 }

func (f *fakeUploader) Upload(*texture.Handle, []*image.RGBA) (uint32, error) {
	f.next++
	return f.next, nil
}

func (f *fakeUploader) Release(uint32) {}

func writeImage(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// writeAssets writes every texture the catalog requests except skip
func writeAssets(t *testing.T, root string, skip string) {
	t.Helper()
	all := []string{
		DoorColorPath, DoorAlphaPath, DoorAOPath, DoorHeightPath, DoorNormalPath,
		DoorMetalnessPath, DoorRoughnessPath, MatcapPath, GradientPath,
	}
	all = append(all, EnvironmentFaces[:]...)
	for _, p := range all {
		if p != skip {
			writeImage(t, filepath.Join(root, p))
		}
	}
}

func TestMissingTextureIsIsolated(t *testing.T) {
	root := t.TempDir()
	writeAssets(t, root, DoorHeightPath)

	loader := texture.NewLoader(root, 4, 0)
	defer loader.Shutdown()

	res, err := Assemble(Options{Variant: VariantCatalog}, loader, NewCamera(VariantCatalog, 800, 600))
	require.NoError(t, err)
	require.Len(t, res.Tracked, 10)

	up := &fakeUploader{}
	require.Eventually(t, func() bool {
		loader.ProcessResults(up)
		return loader.Pending() == 0
	}, 5*time.Second, time.Millisecond)

	for _, o := range res.Tracked {
		for _, h := range o.Material.Handles() {
			if h == o.Material.Maps.Displacement {
				assert.Equal(t, texture.StateFailed, h.State(), o.Name)
				continue
			}
			assert.True(t, h.Ready(), "%s %v", o.Name, h.Paths)
		}
	}
	door := res.Tracked[7].Material
	assert.True(t, door.Maps.Color.Ready())
	assert.True(t, door.Maps.Normal.Ready())
	assert.Zero(t, door.Maps.Displacement.ID())
}

// rejectingUploader fails every upload of one file, like a driver refusing
// an oversized image
type rejectingUploader struct {
	fakeUploader
	reject string
}

func (r *rejectingUploader) Upload(h *texture.Handle, faces []*image.RGBA) (uint32, error) {
	if filepath.ToSlash(h.Paths[0]) == r.reject {
		return 0, errors.New("gl error 0x501 during texture upload")
	}
	return r.fakeUploader.Upload(h, faces)
}

type countingRenderer struct{ frames int }

func (c *countingRenderer) Render(*scene.Scene) error {
	c.frames++
	return nil
}

// frame uploads finished textures before each tick, the way the app does
type frame struct {
	loader *texture.Loader
	up     texture.Uploader
	loop   *loop.Loop
}

func (f frame) OnResize(int, int, float64) {}

func (f frame) OnTick(elapsed float64) error {
	f.loader.ProcessResults(f.up)
	return f.loop.OnTick(elapsed)
}

func TestUploadFailureKeepsLoopRunning(t *testing.T) {
	root := t.TempDir()
	writeAssets(t, root, "")

	loader := texture.NewLoader(root, 4, 0)
	defer loader.Shutdown()

	res, err := Assemble(Options{Variant: VariantCatalog}, loader, NewCamera(VariantCatalog, 800, 600))
	require.NoError(t, err)

	up := &rejectingUploader{reject: filepath.ToSlash(filepath.Join(root, MatcapPath))}
	r := &countingRenderer{}
	l := loop.New(res.Scene, res.Tracked, nil, r)
	f := frame{loader: loader, up: up, loop: l}

	var tickErr error
	require.Eventually(t, func() bool {
		if err := f.OnTick(0); err != nil {
			tickErr = err
			return true
		}
		return loader.Pending() == 0
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, tickErr)

	events := make([]loop.Event, 0, 30)
	for i := 1; i <= 30; i++ {
		events = append(events, loop.Tick(float64(i)/60))
	}
	require.NoError(t, loop.NewManualScheduler(events...).Run(f))
	assert.Equal(t, loop.StateRunning, l.State())
	assert.NoError(t, l.Err())

	matcap := res.Tracked[2].Material.Maps.Matcap
	assert.Equal(t, texture.StateFailed, matcap.State())
	assert.ErrorContains(t, matcap.Err(), "texture upload")
	assert.Zero(t, matcap.ID())

	for _, o := range res.Tracked {
		for _, h := range o.Material.Handles() {
			if h != matcap {
				assert.True(t, h.Ready(), "%s %v", o.Name, h.Paths)
			}
		}
	}
}
