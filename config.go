package rune

import (
	"log"

	"github.com/venkatezh-13/rune/internal/interp"
)

// RuntimeConfig controls Runtime-wide behavior. It is currently empty —
// Runtime carries no state beyond lifetime bookkeeping — but is kept as a
// distinct type so future runtime-wide options have a home without an API
// break. It has no With* methods yet.
type RuntimeConfig struct{}

func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{}
}

// VMConfig is the fluent builder for per-VM options. Each With* method
// returns a clone, so a shared base config can be specialized per VM
// without aliasing.
type VMConfig struct {
	cfg    interp.Config
	logger *log.Logger
}

// NewVMConfig returns a VMConfig with conservative defaults: a 512-frame
// call stack, a 64MiB memory ceiling, and fuel metering disabled.
func NewVMConfig() *VMConfig {
	return &VMConfig{cfg: interp.DefaultConfig()}
}

func (c *VMConfig) clone() *VMConfig {
	cp := *c
	return &cp
}

// WithStackSize sets the maximum call depth.
func (c *VMConfig) WithStackSize(n int) *VMConfig {
	ret := c.clone()
	ret.cfg.StackSize = n
	return ret
}

// WithMemoryLimit sets the hard cap, in bytes, on max_pages*64KiB; exceeding
// it fails vm_init with OOM.
func (c *VMConfig) WithMemoryLimit(bytes uint64) *VMConfig {
	ret := c.clone()
	ret.cfg.MemoryLimit = bytes
	return ret
}

// WithFuelLimit sets the per-call-window instruction cap; 0 disables
// metering.
func (c *VMConfig) WithFuelLimit(n uint64) *VMConfig {
	ret := c.clone()
	ret.cfg.FuelLimit = n
	return ret
}

// WithLogger installs a diagnostic logger for host-call and trap messages
// on VMs built from this config.
func (c *VMConfig) WithLogger(l *log.Logger) *VMConfig {
	ret := c.clone()
	ret.logger = l
	return ret
}
