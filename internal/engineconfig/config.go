// Package engineconfig loads the ECS core's fixed compile-time constants
// (spec.md §6's configuration surface) through viper instead of actual
// compile-time constants, the way
// _examples/evalgo-org-eve/cli/root.go loads its service configuration:
// defaults, an optional config file, then environment variable overrides,
// in that precedence order.
package engineconfig

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config mirrors spec.md §6's named constants.
type Config struct {
	MaxComponents      int
	ChunkCapacity      int
	FrameScratchBytes  int64
	MainHeapBytes      int64
	GPUHeapBytes       int64
	LogLevel           string
	LogJSON            bool
	NamedAllocatorMain string
	NamedAllocatorGPU  string
}

const envPrefix = "ECS"

// Load reads configuration with viper: built-in defaults, then an optional
// config file at configPath (if non-empty), then ECS_-prefixed environment
// variables, highest precedence last.
func Load(configPath string) (Config, error) {
	v := viper.New()

	v.SetDefault("max_components", 256)
	v.SetDefault("chunk_capacity", 64)
	v.SetDefault("frame_scratch_bytes", int64(32*1024*1024))
	v.SetDefault("main_heap_bytes", int64(32*1024*1024))
	v.SetDefault("gpu_heap_bytes", int64(128*1024*1024))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("named_allocator_main", "MainAllocator")
	v.SetDefault("named_allocator_gpu", "GpuAllocator")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// With an explicit SetConfigFile path, viper reports a missing
			// file as an fs not-exist error rather than ConfigFileNotFoundError.
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		MaxComponents:      v.GetInt("max_components"),
		ChunkCapacity:      v.GetInt("chunk_capacity"),
		FrameScratchBytes:  v.GetInt64("frame_scratch_bytes"),
		MainHeapBytes:      v.GetInt64("main_heap_bytes"),
		GPUHeapBytes:       v.GetInt64("gpu_heap_bytes"),
		LogLevel:           v.GetString("log_level"),
		LogJSON:            v.GetBool("log_json"),
		NamedAllocatorMain: v.GetString("named_allocator_main"),
		NamedAllocatorGPU:  v.GetString("named_allocator_gpu"),
	}, nil
}

// Default returns Load("") ignoring the (impossible, with no file) error.
func Default() Config {
	cfg, _ := Load("")
	return cfg
}
