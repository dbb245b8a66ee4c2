// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gobuffalo/packr"

	"github.com/robalobalubob/vulkanRenderer-sub000/model"
)

var testResources = packr.NewBox("./testdata")

func TestImportOBJCube(t *testing.T) {
	data, err := model.ImportOBJ(bytes.NewReader(testResources.Bytes("cube.obj")))
	if err != nil {
		t.Fatal(err)
	}

	// Six quads fan out into twelve triangles.
	if len(data.Indices) != 36 {
		t.Fatalf("unexpected index count: %d", len(data.Indices))
	}

	// Every corner pairs a position with a texcoord, corners that
	// repeat the same pair share a vertex.
	if len(data.Vertices) != 20 {
		t.Fatalf("unexpected vertex count: %d", len(data.Vertices))
	}

	for _, idx := range data.Indices {
		if int(idx) >= len(data.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestImportOBJSharedVertices(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3
f 2 4 3
`
	data, err := model.ImportOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Vertices) != 4 {
		t.Fatalf("expected shared vertices, got %d", len(data.Vertices))
	}
	if len(data.Indices) != 6 {
		t.Fatalf("unexpected index count: %d", len(data.Indices))
	}
}

func TestImportOBJNegativeIndices(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	data, err := model.ImportOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Indices) != 3 {
		t.Fatalf("unexpected index count: %d", len(data.Indices))
	}
	if data.Vertices[data.Indices[1]].Pos.X() != 1 {
		t.Fatal("negative index resolved to wrong vertex")
	}
}

func TestImportOBJRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"out of range":     "v 0 0 0\nf 1 2 3\n",
		"short face":       "v 0 0 0\nf 1 1\n",
		"malformed vertex": "v 0 zero 0\nf 1 1 1\n",
	}
	for name, src := range cases {
		if _, err := model.ImportOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
