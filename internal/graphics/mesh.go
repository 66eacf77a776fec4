package graphics

import (
	"fmt"

	"matcatalog/internal/geometry"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const floatSize = 4

// Mesh is a geometry uploaded to vertex and index buffers
type Mesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// NewMesh uploads g with the position, normal, uv attribute layout
func NewMesh(g *geometry.Geometry) (*Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("upload mesh: %w", err)
	}
	vertices := g.Interleaved()
	m := &Mesh{IndexCount: int32(len(g.Indices))}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(geometry.FloatsPerVertex * floatSize)
	// position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(1)
	// uv
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*floatSize)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m, nil
}

// Draw issues the indexed draw call
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, 0)
}

// Delete frees the GL buffers
func (m *Mesh) Delete() {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
}
