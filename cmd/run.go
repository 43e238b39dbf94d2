package cmd

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	logrus "gopkg.in/Sirupsen/logrus.v0"

	"github.com/sarchlab/blockdma/datarecording"
	"github.com/sarchlab/blockdma/dma"
	"github.com/sarchlab/blockdma/driver"
	"github.com/sarchlab/blockdma/monitoring"
	"github.com/sarchlab/blockdma/platform"
)

var runFlags struct {
	configPath  string
	monitor     bool
	monitorPort int
	traceDB     string
	src         uint64
	dst         uint64
	blocks      uint32
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run block copy transfers on a simulated DMA engine",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSimulation()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.configPath,
		"config", "c", "", "path to a TOML simulation config")
	runCmd.Flags().BoolVar(&runFlags.monitor,
		"monitor", false, "start the monitoring server")
	runCmd.Flags().IntVar(&runFlags.monitorPort,
		"monitor-port", 0, "port for the monitoring server")
	runCmd.Flags().StringVar(&runFlags.traceDB,
		"trace", "", "record completed bursts into this SQLite database")
	runCmd.Flags().Uint64Var(&runFlags.src,
		"src", uint64(dma.DebugPresetSrcLo),
		"source address of a single transfer")
	runCmd.Flags().Uint64Var(&runFlags.dst,
		"dst", uint64(dma.DebugPresetDstLo),
		"destination address of a single transfer")
	runCmd.Flags().Uint32Var(&runFlags.blocks,
		"blocks", dma.DebugPresetCount, "block count of a single transfer")
}

func runSimulation() error {
	cfg, err := loadSimConfig(runFlags.configPath)
	if err != nil {
		return err
	}

	dmaCfg, err := cfg.dmaConfig()
	if err != nil {
		return err
	}

	transfers := cfg.Transfers
	if len(transfers) == 0 {
		transfers = []transferConfig{{
			Src:    runFlags.src,
			Dst:    runFlags.dst,
			Blocks: runFlags.blocks,
		}}
	}

	p := platform.MakeBuilder().
		WithDMAConfig(dmaCfg).
		Build()

	setUpTracing(cfg, p)
	setUpMonitoring(cfg, p)

	for _, t := range transfers {
		fillSourcePattern(p, t, dmaCfg)
		p.Driver.EnqueueTransfer(driver.Transfer{
			SrcAddr:    t.Src,
			DstAddr:    t.Dst,
			BlockCount: t.Blocks,
		})
	}

	err = p.Engine.Run()
	if err != nil {
		return err
	}

	reportResults(p, transfers, dmaCfg)

	atexit.Exit(0)

	return nil
}

func setUpTracing(cfg simConfig, p *platform.Platform) {
	traceDB := cfg.TraceDB
	if runFlags.traceDB != "" {
		traceDB = runFlags.traceDB
	}

	if traceDB == "" {
		return
	}

	recorder := datarecording.New(traceDB)
	tracer := dma.NewBurstTracer(recorder)
	p.DMA.AcceptHook(tracer)
}

func setUpMonitoring(cfg simConfig, p *platform.Platform) {
	port := cfg.MonitorPort
	if runFlags.monitorPort != 0 {
		port = runFlags.monitorPort
	}

	if !runFlags.monitor && port == 0 {
		return
	}

	monitor := monitoring.NewMonitor()
	monitor.WithPortNumber(port)
	monitor.RegisterEngine(p.Engine)
	monitor.RegisterDMA(p.DMA)
	monitor.RegisterComponent(p.Driver)
	p.Driver.WatchProgress(monitor)
	monitor.StartServer()
}

// fillSourcePattern seeds the source region with a word pattern derived
// from the address, so that the copy can be verified afterwards.
func fillSourcePattern(
	p *platform.Platform,
	t transferConfig,
	cfg dma.Config,
) {
	totalBytes := uint64(t.Blocks) * cfg.BlockBytes
	beatBytes := cfg.BeatBytes()

	for off := uint64(0); off < totalBytes; off += beatBytes {
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], t.Src+off)

		err := p.SrcMem.Storage().Write(t.Src+off, word[:beatBytes])
		if err != nil {
			logrus.WithField("addr", t.Src+off).Fatal(err)
		}
	}
}

func reportResults(
	p *platform.Platform,
	transfers []transferConfig,
	cfg dma.Config,
) {
	for i, t := range transfers {
		totalBytes := uint64(t.Blocks) * cfg.BlockBytes

		src, err := p.SrcMem.Storage().Read(t.Src, totalBytes)
		if err != nil {
			logrus.Fatal(err)
		}

		dst, err := p.DstMem.Storage().Read(
			t.Dst+cfg.DstWindowOffset, totalBytes)
		if err != nil {
			logrus.Fatal(err)
		}

		match := bytes.Equal(src, dst)

		logrus.WithFields(logrus.Fields{
			"transfer": strconv.Itoa(i),
			"src":      "0x" + strconv.FormatUint(t.Src, 16),
			"dst":      "0x" + strconv.FormatUint(t.Dst, 16),
			"blocks":   t.Blocks,
			"match":    match,
			"fault":    p.DMA.Core().Fault(),
			"cycles":   p.DMA.Clock().Cycle(),
		}).Info("transfer complete")

		if !match {
			logrus.Error("destination does not match source")
		}
	}
}
