package assembly

import (
	"matcatalog/internal/texture"
)

// TextureSource hands out texture handles without blocking. A load that
// later fails leaves its handle unresolved and nothing else.
type TextureSource interface {
	Load(path string, opts ...texture.Option) *texture.Handle
	LoadCube(faces [6]string, opts ...texture.Option) *texture.Handle
}

// Asset paths relative to the asset root
const (
	DoorColorPath        = "textures/door/color.jpg"
	DoorAlphaPath        = "textures/door/alpha.jpg"
	DoorAOPath           = "textures/door/ambientOcclusion.jpg"
	DoorHeightPath       = "textures/door/height.jpg"
	DoorNormalPath       = "textures/door/normal.jpg"
	DoorMetalnessPath    = "textures/door/metalness.jpg"
	DoorRoughnessPath    = "textures/door/roughness.jpg"
	MatcapPath           = "textures/matcaps/1.png"
	GradientPath         = "textures/gradients/3.jpg"
	EnvironmentMapFolder = "textures/environmentMaps/0"
)

// EnvironmentFaces lists the cube faces in +X, -X, +Y, -Y, +Z, -Z order
var EnvironmentFaces = [6]string{
	EnvironmentMapFolder + "/px.jpg",
	EnvironmentMapFolder + "/nx.jpg",
	EnvironmentMapFolder + "/py.jpg",
	EnvironmentMapFolder + "/ny.jpg",
	EnvironmentMapFolder + "/pz.jpg",
	EnvironmentMapFolder + "/nz.jpg",
}

// textures is the full set of handles one assembly run requests
type textures struct {
	doorColor     *texture.Handle
	doorAlpha     *texture.Handle
	doorAO        *texture.Handle
	doorHeight    *texture.Handle
	doorNormal    *texture.Handle
	doorMetalness *texture.Handle
	doorRoughness *texture.Handle
	matcap        *texture.Handle
	gradient      *texture.Handle
	environment   *texture.Handle
}

// loadTextures requests every texture; doorColor is the door color map path
func loadTextures(src TextureSource, doorColor string) *textures {
	return &textures{
		doorColor:     src.Load(doorColor),
		doorAlpha:     src.Load(DoorAlphaPath),
		doorAO:        src.Load(DoorAOPath),
		doorHeight:    src.Load(DoorHeightPath),
		doorNormal:    src.Load(DoorNormalPath),
		doorMetalness: src.Load(DoorMetalnessPath),
		doorRoughness: src.Load(DoorRoughnessPath),
		matcap:        src.Load(MatcapPath),
		// toon ramps must not be filtered between bands
		gradient:    src.Load(GradientPath, texture.WithNearest()),
		environment: src.LoadCube(EnvironmentFaces),
	}
}
