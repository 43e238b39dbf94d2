package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/blockdma/dma"
)

// transferConfig describes one copy job in a simulation config file.
type transferConfig struct {
	Src    uint64 `toml:"src"`
	Dst    uint64 `toml:"dst"`
	Blocks uint32 `toml:"blocks"`
}

// engineConfig holds the tunable parameters of the DMA engine.
type engineConfig struct {
	BlockBytes  uint64 `toml:"block_bytes"`
	FIFOBlocks  int    `toml:"fifo_blocks"`
	StartMode   string `toml:"start_mode"`
	ErrorPolicy string `toml:"error_policy"`
}

// simConfig is the top-level simulation config file format.
type simConfig struct {
	Engine    engineConfig     `toml:"engine"`
	Transfers []transferConfig `toml:"transfer"`

	MonitorPort int    `toml:"monitor_port"`
	TraceDB     string `toml:"trace_db"`
}

func defaultSimConfig() simConfig {
	cfg := dma.DefaultConfig()

	return simConfig{
		Engine: engineConfig{
			BlockBytes:  cfg.BlockBytes,
			FIFOBlocks:  cfg.FIFOCapacityBlocks,
			StartMode:   "registers",
			ErrorPolicy: "report",
		},
	}
}

func loadSimConfig(path string) (simConfig, error) {
	cfg := defaultSimConfig()

	if path == "" {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config %s: %w", path, err)
	}

	return cfg, nil
}

func (c simConfig) dmaConfig() (dma.Config, error) {
	cfg := dma.DefaultConfig()
	cfg.BlockBytes = c.Engine.BlockBytes
	cfg.FIFOCapacityBlocks = c.Engine.FIFOBlocks

	switch c.Engine.StartMode {
	case "registers", "":
		cfg.StartMode = dma.StartModeRegisters
	case "debug_preset":
		cfg.StartMode = dma.StartModeDebugPreset
	default:
		return cfg, fmt.Errorf("unknown start mode %q", c.Engine.StartMode)
	}

	switch c.Engine.ErrorPolicy {
	case "report", "":
		cfg.ErrorPolicy = dma.ErrorPolicyReport
	case "ignore":
		cfg.ErrorPolicy = dma.ErrorPolicyIgnore
	default:
		return cfg, fmt.Errorf("unknown error policy %q",
			c.Engine.ErrorPolicy)
	}

	return cfg, nil
}
