// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/robalobalubob/vulkanRenderer-sub000/util/collada"
)

// ImportCollada reads a COLLADA (.dae) document and converts its
// first geometry into indexed engine geometry. Identical index
// tuples are deduplicated, so shared corners become shared vertices.
func ImportCollada(fileContents []byte) (*MeshData, error) {
	var doc collada.Collada
	if err := xml.Unmarshal(fileContents, &doc); err != nil {
		return nil, err
	}
	if len(doc.Geometries) == 0 {
		return nil, errors.New("document contains no geometry")
	}

	mesh := doc.Geometries[0].Mesh
	positions, err := findSource(mesh.Source, "positions")
	if err != nil {
		return nil, err
	}

	posOffset, err := inputOffset(mesh.Triangles.Inputs, "VERTEX")
	if err != nil {
		return nil, err
	}
	texSource, texOffset, hasTex := texCoords(mesh)

	stride := mesh.Triangles.Stride()
	if stride == 0 {
		return nil, errors.New("triangles carry no inputs")
	}
	if len(mesh.Triangles.Index)%stride != 0 {
		return nil, fmt.Errorf("index count %d not divisible by stride %d", len(mesh.Triangles.Index), stride)
	}

	var data MeshData
	seen := make(map[[2]int]uint32)
	for idx := 0; idx < len(mesh.Triangles.Index)/stride; idx++ {
		tuple := mesh.Triangles.Index[stride*idx : stride*(idx+1)]

		key := [2]int{tuple[posOffset], -1}
		if hasTex {
			key[1] = tuple[texOffset]
		}
		if existing, ok := seen[key]; ok {
			data.Indices = append(data.Indices, existing)
			continue
		}

		var vert Vertex
		pos := tuple[posOffset] * 3
		if pos+2 >= len(positions.Floats.Data) {
			return nil, fmt.Errorf("position index %d out of range", tuple[posOffset])
		}
		vert.Pos = glm.Vec3{
			positions.Floats.Data[pos],
			positions.Floats.Data[pos+1],
			positions.Floats.Data[pos+2],
		}
		vert.Color = glm.Vec3{1, 1, 1}
		if hasTex {
			uv := tuple[texOffset] * 2
			if uv+1 >= len(texSource.Floats.Data) {
				return nil, fmt.Errorf("texcoord index %d out of range", tuple[texOffset])
			}
			vert.TexCoord = glm.Vec2{
				texSource.Floats.Data[uv],
				1 - texSource.Floats.Data[uv+1],
			}
		}

		next := uint32(len(data.Vertices))
		seen[key] = next
		data.Vertices = append(data.Vertices, vert)
		data.Indices = append(data.Indices, next)
	}

	return &data, nil
}

func texCoords(mesh collada.Mesh) (collada.Source, int, bool) {
	offset, err := inputOffset(mesh.Triangles.Inputs, "TEXCOORD")
	if err != nil {
		return collada.Source{}, 0, false
	}
	source, err := findSource(mesh.Source, "map")
	if err != nil {
		return collada.Source{}, 0, false
	}
	return source, offset, true
}

func inputOffset(inputs []collada.Input, semantic string) (int, error) {
	for _, in := range inputs {
		if in.Semantic == semantic {
			return int(in.Offset), nil
		}
	}
	return 0, fmt.Errorf("input semantic %s not found", semantic)
}

func findSource(sources []collada.Source, dataType string) (collada.Source, error) {
	for _, s := range sources {
		if strings.Contains(s.ID, dataType) {
			return s, nil
		}
	}
	return collada.Source{}, errors.New("source type not found")
}
