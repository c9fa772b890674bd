package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	if err := ExportLabels(path, buildTestPlan(t)); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if err := ExportLabels(path, model.Plan{}); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	plan, err := engine.New(model.DefaultSettings()).Optimize(model.OptimizeRequest{
		MaterialLength: 6000,
		Kerf:           3,
		Pieces:         []float64{2000, 1900, 1900, 5000},
		Names:          []string{"Top", "Leg", "Leg"},
	})
	if err != nil {
		t.Fatal(err)
	}

	labels := CollectLabelInfos(plan)
	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	// Bar 1 holds the 5000 piece alone.
	if labels[0].PieceName != "Segment 4" || labels[0].BarIndex != 1 || labels[0].Offset != 0 {
		t.Errorf("unexpected first label: %+v", labels[0])
	}

	// Bar 2: 2000, then 1900 after one kerf, then 1900 after two.
	want := []struct {
		name   string
		pos    int
		offset float64
	}{
		{"Top", 1, 0},
		{"Leg", 2, 2003},
		{"Leg", 3, 3906},
	}
	for i, w := range want {
		got := labels[i+1]
		if got.BarIndex != 2 || got.PieceName != w.name || got.Position != w.pos || got.Offset != w.offset {
			t.Errorf("label %d = %+v, want bar 2 %s #%d @ %.0f", i+1, got, w.name, w.pos, w.offset)
		}
	}
}

func TestLabelInfo_JSONFields(t *testing.T) {
	data, err := json.Marshal(LabelInfo{PieceName: "Rail", Length: 1200, BarIndex: 2, Position: 1, Offset: 0})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"name", "length_mm", "bar", "position", "offset_mm"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}

func TestWriteLabels_ManyPieces(t *testing.T) {
	// 35 pieces need two label pages.
	pieces := make([]float64, 35)
	for i := range pieces {
		pieces[i] = 100 + float64(i*10)
	}
	plan, err := engine.New(model.DefaultSettings()).Optimize(model.OptimizeRequest{
		MaterialLength: 6000, Kerf: 3, Pieces: pieces,
	})
	if err != nil {
		t.Fatal(err)
	}

	pdf, err := buildLabels(plan)
	if err != nil {
		t.Fatalf("buildLabels returned error: %v", err)
	}
	if pdf.PageCount() != 2 {
		t.Errorf("expected 2 label pages, got %d", pdf.PageCount())
	}

	var buf bytes.Buffer
	if err := WriteLabels(&buf, plan); err != nil {
		t.Fatalf("WriteLabels returned error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("label PDF is empty")
	}
}
