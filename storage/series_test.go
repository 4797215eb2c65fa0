package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"district-price-tracker/models"
)

var seriesCategories = []models.Category{
	{Code: 8, Name: "Isani"},
	{Code: 10, Name: "Samgori"},
}

func TestSeriesLoadMissingFileGivesSkeleton(t *testing.T) {
	store := NewFileSeriesStore(filepath.Join(t.TempDir(), "data.json"))

	series := store.Load(seriesCategories)
	if len(series) != 2 {
		t.Fatalf("expected skeleton for 2 districts, got %d", len(series))
	}
	for code, points := range series {
		if len(points) != 0 {
			t.Errorf("district %d: expected empty sequence, got %v", code, points)
		}
	}
}

func TestSeriesLoadCorruptFileGivesSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	series := NewFileSeriesStore(path).Load(seriesCategories)
	if len(series) != 2 || len(series[8]) != 0 {
		t.Fatalf("corrupt file must fall back to skeleton, got %v", series)
	}
}

func TestSeriesLoadExistingTriples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	raw := `{"8": [["2024-01-01", 500, 480], ["2024-01-02", 510.5, 495]]}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	series := NewFileSeriesStore(path).Load(seriesCategories)

	points := series[8]
	if len(points) != 2 {
		t.Fatalf("expected 2 points for district 8, got %d", len(points))
	}
	want := models.SeriesPoint{Date: "2024-01-01", Average: 500, Median: 480}
	if points[0] != want {
		t.Errorf("first point: got %+v, want %+v", points[0], want)
	}
	if points[1].Average != 510.5 {
		t.Errorf("second point average: got %.2f, want 510.5", points[1].Average)
	}
	// district missing from the file still gets its skeleton
	if series[10] == nil || len(series[10]) != 0 {
		t.Errorf("district 10 must have an empty sequence, got %v", series[10])
	}
}

func TestSeriesSaveWritesTripleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewFileSeriesStore(path)

	series := models.Series{
		8: {{Date: "2024-01-01", Average: 500, Median: 480}},
	}
	if err := store.Save(series); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// the on-disk shape is stringified codes mapped to raw triples
	var onDisk map[string][][]interface{}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("data file is not the expected shape: %v", err)
	}
	triples, ok := onDisk["8"]
	if !ok || len(triples) != 1 {
		t.Fatalf("expected one triple under key \"8\", got %v", onDisk)
	}
	if len(triples[0]) != 3 {
		t.Fatalf("expected [date, average, median], got %v", triples[0])
	}
	if triples[0][0] != "2024-01-01" || triples[0][1] != 500.0 || triples[0][2] != 480.0 {
		t.Errorf("triple content: got %v", triples[0])
	}
}

func TestSeriesSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewFileSeriesStore(path)

	original := models.Series{
		8:  {{Date: "2024-01-01", Average: 500, Median: 480}},
		10: {{Date: "2024-01-01", Average: 390.25, Median: 388}},
	}
	if err := store.Save(original); err != nil {
		t.Fatal(err)
	}

	loaded := store.Load(seriesCategories)
	if loaded[8][0] != original[8][0] {
		t.Errorf("district 8: got %+v, want %+v", loaded[8][0], original[8][0])
	}
	if loaded[10][0] != original[10][0] {
		t.Errorf("district 10: got %+v, want %+v", loaded[10][0], original[10][0])
	}
}
