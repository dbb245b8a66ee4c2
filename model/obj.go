// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	glm "github.com/go-gl/mathgl/mgl32"
)

// ImportOBJ reads a Wavefront OBJ stream and produces indexed engine
// geometry. Faces with more than three corners are triangulated as a
// fan. Normals are parsed and discarded, the vertex layout has no
// slot for them yet.
func ImportOBJ(r io.Reader) (*MeshData, error) {
	var (
		positions []glm.Vec3
		texCoords []glm.Vec2
		data      MeshData
	)
	seen := make(map[string]uint32)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			vec, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			positions = append(positions, vec)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: short texcoord", line)
			}
			u, err := parseFloat(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v, err := parseFloat(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			// OBJ uses a bottom-left UV origin, Vulkan samples
			// from the top left.
			texCoords = append(texCoords, glm.Vec2{u, 1 - v})
		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, fmt.Errorf("line %d: face with %d corners", line, len(corners))
			}
			resolved := make([]uint32, len(corners))
			for idx, corner := range corners {
				vi, err := resolveCorner(corner, positions, texCoords, seen, &data)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				resolved[idx] = vi
			}
			for idx := 1; idx < len(resolved)-1; idx++ {
				data.Indices = append(data.Indices, resolved[0], resolved[idx], resolved[idx+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(data.Vertices) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}
	return &data, nil
}

// resolveCorner turns one "v/vt/vn" face corner into a vertex index,
// reusing an existing vertex when the same corner was seen before.
func resolveCorner(corner string, positions []glm.Vec3, texCoords []glm.Vec2, seen map[string]uint32, data *MeshData) (uint32, error) {
	if existing, ok := seen[corner]; ok {
		return existing, nil
	}

	parts := strings.Split(corner, "/")
	posIdx, err := parseIndex(parts[0], len(positions))
	if err != nil {
		return 0, err
	}

	vert := Vertex{
		Pos:   positions[posIdx],
		Color: glm.Vec3{1, 1, 1},
	}
	if len(parts) > 1 && parts[1] != "" {
		uvIdx, err := parseIndex(parts[1], len(texCoords))
		if err != nil {
			return 0, err
		}
		vert.TexCoord = texCoords[uvIdx]
	}

	next := uint32(len(data.Vertices))
	seen[corner] = next
	data.Vertices = append(data.Vertices, vert)
	return next, nil
}

// parseIndex converts a one-based OBJ index, which may be negative
// to count from the end, to a zero-based slice index.
func parseIndex(field string, length int) (int, error) {
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx += length
	} else {
		idx--
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("index %s out of range", field)
	}
	return idx, nil
}

func parseVec3(fields []string) (glm.Vec3, error) {
	if len(fields) < 3 {
		return glm.Vec3{}, fmt.Errorf("expected 3 components, have %d", len(fields))
	}
	var vec glm.Vec3
	for idx := 0; idx < 3; idx++ {
		f, err := parseFloat(fields[idx])
		if err != nil {
			return glm.Vec3{}, err
		}
		vec[idx] = f
	}
	return vec, nil
}

func parseFloat(field string) (float32, error) {
	f, err := strconv.ParseFloat(field, 32)
	return float32(f), err
}
