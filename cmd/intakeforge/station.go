package main

import (
	"fmt"
	"path/filepath"

	"github.com/mrsinham/intakeforge/internal/capture"
	"github.com/mrsinham/intakeforge/internal/config"
	"github.com/mrsinham/intakeforge/internal/packet"
	"github.com/mrsinham/intakeforge/internal/persist"
	"github.com/mrsinham/intakeforge/internal/session"
)

// openStore opens the configured snapshot slot. The returned cleanup must be
// called when the store is no longer needed.
func openStore() (*persist.Manager, func(), error) {
	storeLogger := logger.With().Str("component", "persist").Logger()

	switch cfg.Snapshot.Backend {
	case config.BackendSQLite:
		slot, err := persist.OpenSQLiteSlot(cfg.Snapshot.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening snapshot database: %w", err)
		}
		cleanup := func() {
			if err := slot.Close(); err != nil {
				logger.Error().Err(err).Msg("closing snapshot database")
			}
		}
		return persist.NewManager(slot, storeLogger), cleanup, nil
	default:
		return persist.NewManager(persist.NewFileSlot(cfg.Snapshot.Path), storeLogger), func() {}, nil
	}
}

func normalizer() capture.Normalizer {
	return capture.Normalizer{MaxWidth: cfg.Image.MaxWidth, Quality: cfg.Image.Quality}
}

// newController wires the capture device, the packet sink and the store into
// a session controller.
func newController(store *persist.Manager) *session.Controller {
	device := capture.NewDevice(capture.DeviceOptions{
		Camera: &capture.CommandCamera{
			DevicePath: cfg.Camera.Device,
			Command:    cfg.Camera.Command,
		},
		Normalizer:    normalizer(),
		ReleaseSettle: cfg.Camera.ReleaseSettle,
		AttachSettle:  cfg.Camera.AttachSettle,
		Logger:        logger.With().Str("component", "capture").Logger(),
	})

	var opener packet.Opener = packet.DefaultOpener()
	if len(cfg.Packet.Opener) > 0 {
		opener = packet.CommandOpener{Command: cfg.Packet.Opener}
	}

	var exporter *packet.DICOMExporter
	if cfg.Packet.DICOM {
		exporter = &packet.DICOMExporter{Dir: filepath.Join(cfg.Packet.OutputDir, "dicom")}
	}

	return session.New(session.Options{
		Device: device,
		Store:  store,
		Sink: &packet.HTMLSink{
			Dir:    cfg.Packet.OutputDir,
			Opener: opener,
			Logger: logger.With().Str("component", "packet").Logger(),
		},
		Exporter: exporter,
		Online:   cfg.Online,
		Logger:   logger,
	})
}
