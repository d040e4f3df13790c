package orrery

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func assertCSVRows(t *testing.T, conf ExportConfig, want int) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(conf.OutputDir, conf.Filename+".csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != want {
		t.Fatalf("%d rows, want %d", len(rows), want)
	}
	return rows
}

func sampleRecord(days float64) TickRecord {
	return TickRecord{
		Days: days,
		Ship: ShipState{
			Position: []float64{1, 2, 3},
			Speed:    4.5,
			Phase:    PhaseAccelerate,
		},
		Bodies: []BodyState{
			{Name: "Star", Position: []float64{0, 0, 0}},
			{Name: "Planet", Position: []float64{100, 0, -50}, TrueAnomaly: 1.25},
		},
	}
}

func TestExportConfigIsUseless(t *testing.T) {
	if !(ExportConfig{}).IsUseless() {
		t.Fatal("zero config must be useless")
	}
	if !(ExportConfig{CSV: true}).IsUseless() {
		t.Fatal("CSV without a filename must be useless")
	}
	if (ExportConfig{CSV: true, Filename: "flight"}).IsUseless() {
		t.Fatal("a named CSV stream is not useless")
	}
}

func TestStreamStatesWritesCSV(t *testing.T) {
	conf := ExportConfig{Filename: "flight", OutputDir: t.TempDir(), CSV: true}
	ch := make(chan TickRecord, 2)
	ch <- sampleRecord(0)
	ch <- sampleRecord(0.5)
	close(ch)
	if err := StreamStates(conf, ch); err != nil {
		t.Fatal(err)
	}

	rows := assertCSVRows(t, conf, 3)
	hdr := rows[0]
	if hdr[0] != "days" || hdr[5] != "ship_phase" {
		t.Fatalf("header %v", hdr)
	}
	// Six ship columns plus four per body.
	if len(hdr) != 6+4*2 {
		t.Fatalf("header width %d", len(hdr))
	}
	if rows[1][5] != "ACCELERATE" {
		t.Fatalf("phase column %q", rows[1][5])
	}
	if rows[2][0] != "0.500000" {
		t.Fatalf("days column %q", rows[2][0])
	}
}

func TestStreamStatesDrainsOnCreateError(t *testing.T) {
	// An unwritable output directory must surface the error and still consume
	// the channel to the end, or the producing tick loop would block forever.
	conf := ExportConfig{Filename: "flight", CSV: true,
		OutputDir: filepath.Join(t.TempDir(), "missing", "deeper")}
	ch := make(chan TickRecord)
	produced := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			ch <- sampleRecord(float64(i))
		}
		close(ch)
		close(produced)
	}()

	if err := StreamStates(conf, ch); err == nil {
		t.Fatal("unwritable output dir must error")
	}
	select {
	case <-produced:
	case <-time.After(5 * time.Second):
		t.Fatal("failed exporter stopped draining; producer blocked")
	}
}

func TestStreamStatesDrainsWhenDisabled(t *testing.T) {
	conf := ExportConfig{OutputDir: t.TempDir()}
	ch := make(chan TickRecord, 1)
	ch <- sampleRecord(0)
	close(ch)
	if err := StreamStates(conf, ch); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(conf.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("disabled export wrote %d files", len(entries))
	}
}
