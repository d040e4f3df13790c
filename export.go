package orrery

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ExportConfig configures the telemetry stream. Disabled by default.
type ExportConfig struct {
	Filename  string // base name, without extension
	OutputDir string
	CSV       bool
}

// IsUseless reports whether this configuration would export anything.
func (c ExportConfig) IsUseless() bool {
	return !c.CSV || c.Filename == ""
}

// TickRecord is one exported telemetry row: the simulated time, the vehicle
// summary, and the state of every live body.
type TickRecord struct {
	Days   float64
	Ship   ShipState
	Bodies []BodyState
}

// StreamStates consumes telemetry records until the channel is closed and
// writes them as CSV. The caller owns the channel lifecycle and typically
// runs this in its own goroutine behind a WaitGroup. The channel is always
// consumed to the end, even when the writer fails: the producer must never
// block on a dead exporter.
func StreamStates(conf ExportConfig, states <-chan TickRecord) error {
	if conf.IsUseless() {
		for range states {
			// Drain so the producer never blocks.
		}
		return nil
	}
	err := writeStates(conf, states)
	if err != nil {
		for range states {
		}
	}
	return err
}

func writeStates(conf ExportConfig, states <-chan TickRecord) error {
	path := filepath.Join(conf.OutputDir, conf.Filename+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("telemetry export: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	wroteHeader := false
	for rec := range states {
		if !wroteHeader {
			hdr := []string{"days", "ship_x", "ship_y", "ship_z", "ship_speed", "ship_phase"}
			for _, b := range rec.Bodies {
				hdr = append(hdr, b.Name+"_x", b.Name+"_y", b.Name+"_z", b.Name+"_nu")
			}
			if err := w.Write(hdr); err != nil {
				return err
			}
			wroteHeader = true
		}
		row := []string{
			fmtF(rec.Days),
			fmtF(rec.Ship.Position[0]), fmtF(rec.Ship.Position[1]), fmtF(rec.Ship.Position[2]),
			fmtF(rec.Ship.Speed),
			rec.Ship.Phase.String(),
		}
		for _, b := range rec.Bodies {
			row = append(row, fmtF(b.Position[0]), fmtF(b.Position[1]), fmtF(b.Position[2]), fmtF(b.TrueAnomaly))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
