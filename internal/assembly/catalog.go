package assembly

import (
	"matcatalog/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Constructors for each catalog entry. They only wire handles into
// material inputs; nothing here waits on pixels.

func basicMaterial(t *textures) *material.Material {
	m := material.New(material.KindBasic)
	m.Maps.Color = t.doorColor
	return m
}

func normalMaterial() *material.Material {
	m := material.New(material.KindNormal)
	m.FlatShading = true
	return m
}

func matcapMaterial(t *textures) *material.Material {
	m := material.New(material.KindMatcap)
	m.Maps.Matcap = t.matcap
	return m
}

func depthMaterial() *material.Material {
	return material.New(material.KindDepth)
}

func lambertMaterial() *material.Material {
	return material.New(material.KindLambert)
}

func phongMaterial() *material.Material {
	m := material.New(material.KindPhong)
	m.Shininess = 100
	m.Specular = material.Hex(0x1188ff)
	return m
}

func toonMaterial(t *textures) *material.Material {
	m := material.New(material.KindToon)
	m.Maps.Gradient = t.gradient
	return m
}

// doorStandardMaterial is the PBR material with the whole door texture set
func doorStandardMaterial(t *textures) *material.Material {
	m := material.New(material.KindStandard)
	m.Metalness = 0.7
	m.Roughness = 0.2
	m.Maps.Color = t.doorColor
	m.Maps.AO = t.doorAO
	m.AOIntensity = 1
	m.Maps.Displacement = t.doorHeight
	m.DisplacementScale = 0.05
	m.Maps.Metalness = t.doorMetalness
	m.Maps.Roughness = t.doorRoughness
	m.Maps.Normal = t.doorNormal
	m.NormalScale = mgl32.Vec2{0.5, 0.5}
	return m
}

func physicalMaterial() *material.Material {
	m := material.New(material.KindPhysical)
	m.Roughness = 0.2
	m.Metalness = 0.5
	m.Clearcoat = 1
	m.ClearcoatRoughness = 0.1
	return m
}

func environmentMaterial(t *textures) *material.Material {
	m := material.New(material.KindStandard)
	m.Metalness = 0.7
	m.Roughness = 0.2
	m.Maps.Env = t.environment
	return m
}

// alphaDoorMaterial cuts the door silhouette out of a plane
func alphaDoorMaterial(t *textures) *material.Material {
	m := material.New(material.KindBasic)
	m.Maps.Color = t.doorColor
	m.Maps.Alpha = t.doorAlpha
	m.Transparent = true
	m.DoubleSided = true
	return m
}

func clearcoatEnvironmentMaterial(t *textures) *material.Material {
	m := physicalMaterial()
	m.Metalness = 0.9
	m.Roughness = 0.05
	m.Maps.Env = t.environment
	return m
}
