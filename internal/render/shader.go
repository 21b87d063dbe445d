package render

import (
	_ "embed"
	"fmt"
	"regexp"
)

//go:embed shaders/cells.kage
var cellsKage []byte

// ShaderSource is the source of a pipeline.
type ShaderSource struct {
	Name   string
	Source []byte
}

// CellShader returns the pipeline used to draw cells and grid lines.
func CellShader() ShaderSource {
	return ShaderSource{Name: "cells.kage", Source: cellsKage}
}

// Uniforms every pipeline must declare, with their types.
var requiredUniforms = []struct {
	name, typ string
}{
	{"Resolution", "vec2"},
	{"Color", "vec4"},
}

// CheckUniforms verifies that src declares the uniforms the renderer sets.
// Backends call it after compiling so a pipeline missing one fails to link
// instead of drawing nothing.
func CheckUniforms(src ShaderSource) error {
	for _, u := range requiredUniforms {
		re := regexp.MustCompile(`(?m)^\s*var\s+` + u.name + `\s+` + u.typ + `\b`)
		if !re.Match(src.Source) {
			return &ProgramLinkError{Log: fmt.Sprintf("%s: uniform %s %s is not declared", src.Name, u.name, u.typ)}
		}
	}
	return nil
}
