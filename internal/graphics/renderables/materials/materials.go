// Package materials draws every scene object with the catalog shader.
package materials

import (
	"math"
	"sort"

	"matcatalog/internal/geometry"
	"matcatalog/internal/graphics"
	renderer "matcatalog/internal/graphics/renderer"
	"matcatalog/internal/material"
	"matcatalog/internal/profiling"
	"matcatalog/internal/scene"
	"matcatalog/internal/texture"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
)

const (
	VertShader = "shaders/material.vert"
	FragShader = "shaders/material.frag"

	// keep in sync with MAX_POINT_LIGHTS in material.frag
	maxPointLights = 4
)

// sampler binds a material input to a fixed texture unit
type sampler struct {
	uniform string
	flag    string
	unit    uint32
	target  uint32
	handle  func(m *material.Material) *texture.Handle
}

var samplers = []sampler{
	{"uColorMap", "uHasColorMap", 0, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Color }},
	{"uAlphaMap", "uHasAlphaMap", 1, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Alpha }},
	{"uMatcap", "uHasMatcap", 2, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Matcap }},
	{"uGradientMap", "uHasGradientMap", 3, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Gradient }},
	{"uAOMap", "uHasAOMap", 4, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.AO }},
	{"uDisplacementMap", "uHasDisplacementMap", 5, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Displacement }},
	{"uNormalMap", "uHasNormalMap", 6, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Normal }},
	{"uMetalnessMap", "uHasMetalnessMap", 7, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Metalness }},
	{"uRoughnessMap", "uHasRoughnessMap", 8, gl.TEXTURE_2D, func(m *material.Material) *texture.Handle { return m.Maps.Roughness }},
	{"uEnvMap", "uHasEnvMap", 9, gl.TEXTURE_CUBE_MAP, func(m *material.Material) *texture.Handle { return m.Maps.Env }},
}

// Materials implements the catalog pass
type Materials struct {
	shader *graphics.Shader
	meshes map[*geometry.Geometry]*graphics.Mesh
	failed map[*geometry.Geometry]bool
}

// NewMaterials creates a new materials renderable
func NewMaterials() *Materials {
	return &Materials{
		meshes: make(map[*geometry.Geometry]*graphics.Mesh),
		failed: make(map[*geometry.Geometry]bool),
	}
}

// Init compiles the shader and assigns sampler units
func (m *Materials) Init() error {
	var err error
	m.shader, err = graphics.NewShader(graphics.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}
	m.shader.Use()
	for _, s := range samplers {
		m.shader.SetInt(s.uniform, int32(s.unit))
	}
	return nil
}

// SetViewport is a no-op; projection comes from the scene camera
func (m *Materials) SetViewport(width, height int) {}

// draw is one object with its view-space depth
type draw struct {
	obj   *scene.Object
	model mgl32.Mat4
	depth float32
}

// Render draws opaque objects first, then transparent ones back to front
func (m *Materials) Render(ctx renderer.RenderContext) {
	defer profiling.Track("materials.Render")()

	var opaque, transparent []draw
	for _, obj := range ctx.Scene.Objects() {
		if obj.Geometry == nil || obj.Material == nil {
			continue
		}
		model := obj.ModelMatrix()
		d := draw{obj: obj, model: model}
		if obj.Material.Transparent {
			d.depth = ctx.View.Mul4(model).Col(3)[2]
			transparent = append(transparent, d)
		} else {
			opaque = append(opaque, d)
		}
	}
	// view space looks down -Z, so the farthest object has the smallest z
	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].depth < transparent[j].depth
	})

	m.shader.Use()
	m.shader.SetMatrix4("uView", ctx.View)
	m.shader.SetMatrix4("uProj", ctx.Proj)
	m.shader.SetMatrix4("uInvView", ctx.InvView)
	m.setLights(ctx)

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, d := range opaque {
		m.drawObject(ctx, d)
	}

	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, d := range transparent {
			m.drawObject(ctx, d)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.Enable(gl.CULL_FACE)
	gl.BindVertexArray(0)
}

func (m *Materials) setLights(ctx renderer.RenderContext) {
	m.shader.SetVec3("uAmbient", ctx.Scene.Ambient())

	points := ctx.Scene.PointLights()
	if len(points) > maxPointLights {
		points = points[:maxPointLights]
	}
	m.shader.SetInt("uPointCount", int32(len(points)))
	for i, l := range points {
		pos := ctx.View.Mul4x1(l.Position.Vec4(1)).Vec3()
		m.shader.SetVec3(indexed("uPointPos", i), pos)
		m.shader.SetVec3(indexed("uPointColor", i), l.Color.Mul(l.Intensity))
	}
}

func indexed(name string, i int) string {
	return name + "[" + string(rune('0'+i)) + "]"
}

func (m *Materials) drawObject(ctx renderer.RenderContext, d draw) {
	mesh := m.ensureMesh(d.obj.Geometry)
	if mesh == nil {
		return
	}
	mat := d.obj.Material

	modelView := ctx.View.Mul4(d.model)
	m.shader.SetMatrix4("uModel", d.model)
	m.shader.SetMatrix3("uNormalMatrix", modelView.Mat3().Inv().Transpose())

	m.shader.SetInt("uKind", int32(mat.Kind))
	m.shader.SetVec3("uColor", mat.Color)
	m.shader.SetFloat("uOpacity", mat.Opacity)
	m.shader.SetBool("uFlatShading", mat.FlatShading)
	m.shader.SetFloat("uShininess", mat.Shininess)
	m.shader.SetVec3("uSpecular", mat.Specular)
	m.shader.SetFloat("uMetalness", mat.Metalness)
	m.shader.SetFloat("uRoughness", mat.Roughness)
	m.shader.SetFloat("uAOIntensity", mat.AOIntensity)
	m.shader.SetFloat("uDisplacementScale", mat.DisplacementScale)
	m.shader.SetVec2("uNormalScale", mat.NormalScale)
	m.shader.SetFloat("uEnvIntensity", mat.EnvIntensity)
	m.shader.SetFloat("uClearcoat", mat.Clearcoat)
	m.shader.SetFloat("uClearcoatRoughness", mat.ClearcoatRoughness)

	m.bindTextures(mat)

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	mesh.Draw()
}

// bindTextures binds every resolved input. Unresolved handles leave the input
// off so the shader falls back to the scalar parameters.
func (m *Materials) bindTextures(mat *material.Material) {
	for _, s := range samplers {
		h := s.handle(mat)
		var id uint32
		if h != nil {
			id = h.ID()
		}
		m.shader.SetBool(s.flag, id != 0)
		gl.ActiveTexture(gl.TEXTURE0 + s.unit)
		gl.BindTexture(s.target, id)

		if s.target == gl.TEXTURE_CUBE_MAP && id != 0 {
			w, ht := h.Size()
			m.shader.SetFloat("uEnvMaxLod", float32(math.Log2(float64(max(w, ht)))))
		}
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (m *Materials) ensureMesh(g *geometry.Geometry) *graphics.Mesh {
	if mesh, ok := m.meshes[g]; ok {
		return mesh
	}
	if m.failed[g] {
		return nil
	}
	mesh, err := graphics.NewMesh(g)
	if err != nil {
		log.Error().Err(err).Str("geometry", g.Name).Msg("mesh upload failed")
		m.failed[g] = true
		return nil
	}
	m.meshes[g] = mesh
	return mesh
}

// Dispose cleans up OpenGL resources
func (m *Materials) Dispose() {
	for g, mesh := range m.meshes {
		mesh.Delete()
		delete(m.meshes, g)
	}
	if m.shader != nil {
		m.shader.Delete()
	}
}
