// Command shadercheck compiles and links every built-in shader program in a
// hidden GL 4.1 context and exits non-zero if any of them fails.
package main

import (
	"os"
	"runtime"
	"time"

	"matcatalog/internal/graphics"
	"matcatalog/internal/graphics/renderables/materials"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	runtime.LockOSThread()
}

var programs = [][2]string{
	{materials.VertShader, materials.FragShader},
	{graphics.TextVertShader, graphics.TextFragShader},
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if err := glfw.Init(); err != nil {
		log.Fatal().Err(err).Msg("glfw init")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "shadercheck", nil, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("create window")
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		log.Fatal().Err(err).Msg("gl init")
	}
	log.Info().Str("gl", gl.GoStr(gl.GetString(gl.VERSION))).Msg("context ready")

	failed := 0
	for _, p := range programs {
		start := time.Now()
		s, err := graphics.NewShader(graphics.Shaders, p[0], p[1])
		if err != nil {
			failed++
			log.Error().Err(err).Str("vert", p[0]).Str("frag", p[1]).Msg("program failed")
			continue
		}
		s.Delete()
		log.Info().Str("vert", p[0]).Str("frag", p[1]).Dur("took", time.Since(start)).Msg("program ok")
	}

	window.Destroy()
	if failed > 0 {
		glfw.Terminate()
		os.Exit(1)
	}
}
