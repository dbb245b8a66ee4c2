// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"testing"

	"github.com/robalobalubob/vulkanRenderer-sub000/model"
)

const quadCollada = `
<COLLADA>
	<library_geometries>
		<geometry id="Quad-mesh" name="Quad">
			<mesh>
				<source id="Quad-mesh-positions">
					<float_array id="Quad-mesh-positions-array" count="12">0 0 0 1 0 0 0 1 0 1 1 0</float_array>
					<technique_common>
						<accessor source="#Quad-mesh-positions-array" count="4" stride="3"/>
					</technique_common>
				</source>
				<source id="Quad-mesh-map-0">
					<float_array id="Quad-mesh-map-0-array" count="8">0 0 1 0 0 1 1 1</float_array>
					<technique_common>
						<accessor source="#Quad-mesh-map-0-array" count="4" stride="2"/>
					</technique_common>
				</source>
				<vertices id="Quad-mesh-vertices">
					<input semantic="POSITION" source="#Quad-mesh-positions"/>
				</vertices>
				<triangles count="2">
					<input semantic="VERTEX" source="#Quad-mesh-vertices" offset="0"/>
					<input semantic="TEXCOORD" source="#Quad-mesh-map-0" offset="1"/>
					<p>0 0 1 1 2 2 1 1 3 3 2 2</p>
				</triangles>
			</mesh>
		</geometry>
	</library_geometries>
</COLLADA>
`

func TestImportColladaQuad(t *testing.T) {
	data, err := model.ImportCollada([]byte(quadCollada))
	if err != nil {
		t.Fatal(err)
	}

	if len(data.Indices) != 6 {
		t.Fatalf("unexpected index count: %d", len(data.Indices))
	}

	// The diagonal corners repeat across both triangles and must
	// resolve to shared vertices.
	if len(data.Vertices) != 4 {
		t.Fatalf("unexpected vertex count: %d", len(data.Vertices))
	}

	first := data.Vertices[data.Indices[0]]
	if first.Pos.X() != 0 || first.Pos.Y() != 0 {
		t.Fatalf("unexpected first vertex: %+v", first)
	}

	// Texcoords flip V for top-left origin sampling.
	if got := data.Vertices[data.Indices[2]].TexCoord; got.Y() != 0 {
		t.Fatalf("expected flipped V, got %v", got)
	}
}

func TestImportColladaRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not xml":     `{{{`,
		"no geometry": `<COLLADA><library_geometries></library_geometries></COLLADA>`,
	}
	for name, src := range cases {
		if _, err := model.ImportCollada([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
