// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/gobuffalo/envy"

	"github.com/robalobalubob/vulkanRenderer-sub000/core"
)

func TestConfigurationFromEnvDefaults(t *testing.T) {
	envy.Temp(func() {
		cfg, err := core.ConfigurationFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Time.FramesPerSecond != core.DefaultConfiguration.Time.FramesPerSecond {
			t.Errorf("expected default fps, got %d", cfg.Time.FramesPerSecond)
		}
		if cfg.Renderer.ScreenWidth != 800 || cfg.Renderer.ScreenHeight != 600 {
			t.Errorf("expected default screen size, got %dx%d",
				cfg.Renderer.ScreenWidth, cfg.Renderer.ScreenHeight)
		}
		if cfg.Instance.DebugMode {
			t.Error("debug mode should be off by default")
		}
	})
}

func TestConfigurationFromEnvOverrides(t *testing.T) {
	envy.Temp(func() {
		envy.Set("VREN_FPS", "60")
		envy.Set("VREN_SCREEN_WIDTH", "1920")
		envy.Set("VREN_SCREEN_HEIGHT", "1080")
		envy.Set("VREN_SWAPCHAIN_SIZE", "2")
		envy.Set("VREN_SHADER_DIR", "/opt/shaders")
		envy.Set("VREN_VALIDATION", "1")

		cfg, err := core.ConfigurationFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Time.FramesPerSecond != 60 {
			t.Errorf("expected fps 60, got %d", cfg.Time.FramesPerSecond)
		}
		if cfg.Renderer.ScreenWidth != 1920 || cfg.Renderer.ScreenHeight != 1080 {
			t.Errorf("unexpected screen size %dx%d",
				cfg.Renderer.ScreenWidth, cfg.Renderer.ScreenHeight)
		}
		if cfg.Renderer.SwapchainSize != 2 {
			t.Errorf("expected swapchain size 2, got %d", cfg.Renderer.SwapchainSize)
		}
		if cfg.Renderer.ShaderDirectory != "/opt/shaders" {
			t.Errorf("unexpected shader directory %s", cfg.Renderer.ShaderDirectory)
		}
		if !cfg.Instance.DebugMode {
			t.Error("expected debug mode on")
		}
	})
}

func TestConfigurationFromEnvMalformed(t *testing.T) {
	envy.Temp(func() {
		envy.Set("VREN_SCREEN_WIDTH", "very wide")
		if _, err := core.ConfigurationFromEnv(); err == nil {
			t.Fatal("expected an error for a malformed value")
		}
	})
}
