// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strconv"

	"github.com/gobuffalo/envy"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Instance InstanceConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the delay between input event polls,
	// in milliseconds
	EventPollDelay int
}

// InstanceConfiguration is used to configure the Vulkan instance
type InstanceConfiguration struct {
	DebugMode  bool
	Extensions []string
	Layers     []string
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	SwapchainSize    uint32
	DeviceExtensions []string

	ScreenWidth  uint32
	ScreenHeight uint32

	ShaderDirectory string
}

// DefaultConfiguration is the starting point that environment
// overrides are applied on top of.
var DefaultConfiguration = Configuration{
	Time: TimeConfiguration{
		FramesPerSecond: 2000,
		EventPollDelay:  50,
	},
	Renderer: RendererConfiguration{
		ScreenWidth:   800,
		ScreenHeight:  600,
		SwapchainSize: 3,
		DeviceExtensions: []string{
			"VK_KHR_swapchain",
		},
		ShaderDirectory: "./shaders",
	},
}

// ConfigurationFromEnv builds a configuration from the default and
// the VREN_* environment variables. Unset variables keep defaults,
// malformed values fail loudly instead of being silently skipped.
func ConfigurationFromEnv() (Configuration, error) {
	cfg := DefaultConfiguration

	for _, num := range []struct {
		key string
		dst *int
	}{
		{"VREN_FPS", &cfg.Time.FramesPerSecond},
		{"VREN_EVENT_POLL_DELAY", &cfg.Time.EventPollDelay},
	} {
		raw := envy.Get(num.key, strconv.Itoa(*num.dst))
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Configuration{}, fmt.Errorf("%s: %w", num.key, err)
		}
		*num.dst = parsed
	}

	for _, num := range []struct {
		key string
		dst *uint32
	}{
		{"VREN_SCREEN_WIDTH", &cfg.Renderer.ScreenWidth},
		{"VREN_SCREEN_HEIGHT", &cfg.Renderer.ScreenHeight},
		{"VREN_SWAPCHAIN_SIZE", &cfg.Renderer.SwapchainSize},
	} {
		raw := envy.Get(num.key, strconv.FormatUint(uint64(*num.dst), 10))
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Configuration{}, fmt.Errorf("%s: %w", num.key, err)
		}
		*num.dst = uint32(parsed)
	}

	cfg.Renderer.ShaderDirectory = envy.Get("VREN_SHADER_DIR", cfg.Renderer.ShaderDirectory)
	cfg.Instance.DebugMode = envy.Get("VREN_VALIDATION", "") != ""

	return cfg, nil
}
