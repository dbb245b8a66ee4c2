// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/robalobalubob/vulkanRenderer-sub000/core"
)

func main() {
	cfg := core.InstanceConfiguration{
		DebugMode:  true,
		Extensions: []string{},
		Layers:     []string{},
	}

	coreInstance, err := core.NewVulkanInstance(core.DefaultVulkanApplicationInfo, nil, cfg)
	if err != nil {
		log.WithError(err).Fatal("could not create Vulkan instance")
	}
	defer coreInstance.Destroy()

	bytes, err := json.Marshal(coreInstance.PhysicalDevicesInfo())
	if err != nil {
		log.WithError(err).Fatal("could not serialize device info")
	}
	fmt.Printf("%s", bytes)
}
