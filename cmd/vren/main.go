// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/robalobalubob/vulkanRenderer-sub000/asset"
	"github.com/robalobalubob/vulkanRenderer-sub000/core"
	"github.com/robalobalubob/vulkanRenderer-sub000/model"
	"github.com/robalobalubob/vulkanRenderer-sub000/scene"
)

func init() {
	runtime.LockOSThread()
}

// Essential globals
var (
	vkInstance core.Instance
	vkRenderer *core.VulkanRenderer
	sdlWindow  *sdl.Window
	sdlSurface unsafe.Pointer

	frameCounter int64
)

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
	debug        = flag.Bool("vkdbg", false, "Load Vulkan validation layers")

	meshFile    = flag.String("mesh", "assets/cube.obj", "Mesh file to display, .obj or .dae")
	textureFile = flag.String("texture", "", "Texture image for the mesh")
	archiveFile = flag.String("assets", "", "Asset archive to read the mesh and texture from")
)

var spinnerType = scene.NextComponentType()

// spinner rotates its node around Z at a fixed angular velocity.
type spinner struct {
	node  *scene.Node
	speed float32
}

func (s *spinner) Type() scene.ComponentType { return spinnerType }
func (s *spinner) Enabled() bool             { return true }
func (s *spinner) Destroy()                  {}

func (s *spinner) Update(delta float64) {
	rot := glm.QuatRotate(s.speed*float32(delta), glm.Vec3{0, 0, 1})
	s.node.Transform().Rotate(rot)
}

func newWindow(cfg core.RendererConfiguration) *sdl.Window {
	window, err := sdl.CreateWindow("vren",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		log.WithError(err).Fatal("could not create window")
	}
	return window
}

// newLibrary builds the resource loader, backed by the asset archive
// when one is given, plain files otherwise.
func newLibrary(renderer *core.VulkanRenderer) (*model.Library, error) {
	if *archiveFile == "" {
		return model.NewLibrary(renderer.Allocator(), nil), nil
	}
	f, err := os.Open(*archiveFile)
	if err != nil {
		return nil, err
	}
	archive, err := asset.Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return model.NewLibrary(renderer.Allocator(), archive), nil
}

func buildScene(library *model.Library) (*scene.Node, *scene.Camera, error) {
	resource, err := library.Load(*meshFile)
	if err != nil {
		return nil, nil, err
	}
	mesh, ok := resource.(*model.Mesh)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not a mesh", *meshFile)
	}

	var texture *model.Texture
	if *textureFile != "" {
		resource, err := library.Load(*textureFile)
		if err != nil {
			return nil, nil, err
		}
		if texture, ok = resource.(*model.Texture); !ok {
			return nil, nil, fmt.Errorf("%s is not a texture", *textureFile)
		}
	}

	root := scene.NewNode("root")

	modelNode := scene.NewNode("model")
	modelNode.AddComponent(scene.NewMeshRenderer(mesh, texture))
	modelNode.AddComponent(&spinner{node: modelNode, speed: 0.5})
	root.AddChild(modelNode)

	camera := scene.NewCamera()
	camera.Transform().SetPosition(glm.Vec3{2, 2, 2})
	camera.LookAt(glm.Vec3{0, 0, 0}, glm.Vec3{0, 0, 1})

	return root, camera, nil
}

func main() {
	flag.Parse()
	godotenv.Load()

	configuration, err := core.ConfigurationFromEnv()
	if err != nil {
		log.WithError(err).Fatal("bad configuration")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.WithError(err).Fatal("cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.WithError(err).Fatal("trace")
		}
		if err := trace.Start(f); err != nil {
			log.WithError(err).Fatal("trace")
		}
		defer trace.Stop()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.WithError(err).Fatal("could not init SDL")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.WithError(err).Fatal("could not load Vulkan")
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow = newWindow(configuration.Renderer)

	{
		cfg := core.InstanceConfiguration{
			DebugMode:  *debug || configuration.Instance.DebugMode,
			Extensions: sdlWindow.VulkanGetInstanceExtensions(),
			Layers:     []string{},
		}

		vi, err := core.NewVulkanInstance(core.DefaultVulkanApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), cfg)
		if err != nil {
			log.WithError(err).Fatal("could not create Vulkan instance")
		}
		vkInstance = vi
		defer vkInstance.Destroy()
	}

	if srf, err := sdlWindow.VulkanCreateSurface(vkInstance.Instance()); err != nil {
		log.WithError(err).Fatal("could not create surface")
	} else {
		sdlSurface = srf
		vkInstance.SetSurface(sdlSurface)
	}

	vkRenderer, err = core.NewVulkanRenderer(vkInstance, configuration.Renderer)
	if err != nil {
		log.WithError(err).Fatal("could not create renderer")
	}

	if err := vkRenderer.Initialise(); err != nil {
		log.WithError(err).Fatal("could not initialise renderer")
	}
	defer vkRenderer.Destroy()

	library, err := newLibrary(vkRenderer)
	if err != nil {
		log.WithError(err).Fatal("could not open asset library")
	}
	defer library.Release()

	root, camera, err := buildScene(library)
	if err != nil {
		log.WithError(err).Fatal("could not build scene")
	}
	defer root.Destroy()

	vkRenderer.SetScene(root)
	vkRenderer.SetCamera(camera)

	timeService := core.NewTime(configuration.Time)
	defer timeService.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	programSync := sync.WaitGroup{}

	/* Frame counter loop */
	programSync.Add(1)
	go func(ctx context.Context, wg *sync.WaitGroup) {
	CounterLoop:
		for {
			select {
			case <-ctx.Done():
				break CounterLoop
			default:
				currentCount := atomic.SwapInt64(&frameCounter, 0)
				fmt.Printf("\r\033[2KFrame count: %d\tCGO calls: %d", currentCount*5, runtime.NumCgoCall())
				time.Sleep(200 * time.Millisecond)
				// 200 ms * 5 = 1s, therefore we need to mutiply the count
			}
		}
		wg.Done()
	}(ctx, &programSync)

	/* Renderer loop */
	programSync.Add(1)
	go func(ctx context.Context, wg *sync.WaitGroup) {
		lastFrame := time.Now()
	DrawLoop:
		for {
			select {
			case <-ctx.Done():
				log.Info("draw loop exited")
				break DrawLoop
			case now := <-timeService.FpsTicker().C:
				root.Update(now.Sub(lastFrame).Seconds())
				lastFrame = now

				// The renderer recovers swapchain staleness itself,
				// an error surfacing here means the frame contract
				// is broken and the session cannot continue.
				if err := vkRenderer.Draw(); err != nil {
					log.WithError(err).Error("draw failed")
					cancel()
					continue DrawLoop
				}
				if err := vkRenderer.Present(); err != nil {
					log.WithError(err).Error("present failed")
					cancel()
					continue DrawLoop
				}
				atomic.AddInt64(&frameCounter, 1)
			}
		}
		wg.Done()
	}(ctx, &programSync)

	/* Event loop */
EventLoop:
	for {
		select {
		case <-ctx.Done():
			break EventLoop
		case <-timeService.EventTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						cancel()
						continue EventLoop
					}
				case *sdl.QuitEvent:
					cancel()
					continue EventLoop
				}
			}
		}
	}

	programSync.Wait()

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.WithError(err).Fatal("mem profile")
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.WithError(err).Fatal("mem profile")
		}
	}
}
