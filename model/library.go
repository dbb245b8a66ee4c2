// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/robalobalubob/vulkanRenderer-sub000/asset"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx"
	"github.com/robalobalubob/vulkanRenderer-sub000/gfx/vkr"
)

// MaxTextureDimension is the side limit textures loaded through a
// Library are downscaled to.
const MaxTextureDimension = 4096

// NewLibrary creates a resource loader backed by the given allocator.
// When archive is non-nil resource ids resolve inside it, otherwise
// they are filesystem paths.
func NewLibrary(alloc *vkr.Allocator, archive *asset.Archive) *Library {
	return &Library{
		alloc:   alloc,
		archive: archive,
		loaded:  make(map[string]gfx.Resource),
	}
}

// Library loads meshes and textures by id, choosing the importer from
// the file extension. Loaded resources are shared: a second Load of
// the same id returns the already resident resource.
type Library struct {
	alloc   *vkr.Allocator
	archive *asset.Archive

	mutex  sync.Mutex
	loaded map[string]gfx.Resource
}

// Load implements gfx.Loader.
func (l *Library) Load(id string) (gfx.Resource, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if resource, ok := l.loaded[id]; ok {
		return resource, nil
	}

	contents, err := l.read(id)
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", id, err)
	}

	var resource gfx.Resource
	switch path.Ext(id) {
	case ".obj":
		data, err := ImportOBJ(bytes.NewReader(contents))
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", id, err)
		}
		mesh, err := NewMesh(l.alloc, data)
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", id, err)
		}
		mesh.id = id
		resource = mesh
	case ".dae":
		data, err := ImportCollada(contents)
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", id, err)
		}
		mesh, err := NewMesh(l.alloc, data)
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", id, err)
		}
		mesh.id = id
		resource = mesh
	case ".png", ".jpg", ".jpeg":
		texture, err := NewTexture(l.alloc, contents, MaxTextureDimension)
		if err != nil {
			return nil, fmt.Errorf("model: %s: %w", id, err)
		}
		texture.id = id
		resource = texture
	default:
		return nil, fmt.Errorf("model: %s: unknown resource format: %w", id, gfx.ErrInvalidUsage)
	}

	l.loaded[id] = resource
	return resource, nil
}

func (l *Library) read(id string) ([]byte, error) {
	if l.archive == nil {
		return os.ReadFile(id)
	}
	return l.archive.ReadAll(id)
}

// Release frees every resource the library has loaded.
func (l *Library) Release() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for id, resource := range l.loaded {
		resource.Release()
		delete(l.loaded, id)
	}
}
