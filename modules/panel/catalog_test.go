package panel

import (
	"errors"
	"testing"
)

func TestDefaultCatalogCounts(t *testing.T) {
	c := DefaultCatalog()
	for _, s := range c.Sets() {
		sum := 0
		for _, spec := range s.Specs {
			sum += spec.Quantity
		}
		if sum != s.TotalPanelCount {
			t.Errorf("set %d: quantities sum to %d, want %d", s.ID, sum, s.TotalPanelCount)
		}
		if len(s.Expand()) != s.TotalPanelCount {
			t.Errorf("set %d: Expand returned %d panels", s.ID, len(s.Expand()))
		}
	}
}

func TestDefaultCatalogThresholdsCoverRow(t *testing.T) {
	for _, s := range DefaultCatalog().Sets() {
		row := s.TotalWidthFt() + float64(s.TotalPanelCount-1)*0.5
		if s.MinWallWidthFt < row {
			t.Errorf("set %d: min width %.1f below row width %.1f", s.ID, s.MinWallWidthFt, row)
		}
	}
}

func TestSetsLargestFirst(t *testing.T) {
	sets := DefaultCatalog().Sets()
	want := []SetID{Set10, Set5, Set3}
	if len(sets) != len(want) {
		t.Fatalf("got %d sets, want %d", len(sets), len(want))
	}
	for i, id := range want {
		if sets[i].ID != id {
			t.Errorf("sets[%d] = %d, want %d", i, sets[i].ID, id)
		}
	}
}

func TestSelectBestPanelSet(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		name          string
		width, height float64
		want          SetID
	}{
		{"large wall", 20, 10, Set10},
		{"narrow wall", 6, 8, Set3},
		{"default estimate", 12, 8, Set5},
		{"exact quintet width", 8, 6, Set5},
		{"too short for quintet", 12, 5.9, Set3},
		{"gallery needs headroom", 25, 6.5, Set5},
		{"gallery at threshold", 18, 7, Set10},
		{"nothing fits", 3, 3, Set3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SelectBestPanelSet(tt.width, tt.height); got != tt.want {
				t.Errorf("SelectBestPanelSet(%v, %v) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestNewCatalogRejectsBadSets(t *testing.T) {
	tests := []struct {
		name string
		set  PanelSet
	}{
		{"count mismatch", PanelSet{ID: 3, Specs: []PanelSpec{{WidthFt: 1, HeightFt: 2, Quantity: 2}}, TotalPanelCount: 3}},
		{"zero width", PanelSet{ID: 3, Specs: []PanelSpec{{WidthFt: 0, HeightFt: 2, Quantity: 3}}, TotalPanelCount: 3}},
		{"zero quantity", PanelSet{ID: 3, Specs: []PanelSpec{{WidthFt: 1, HeightFt: 2, Quantity: 0}, {WidthFt: 1, HeightFt: 2, Quantity: 3}}, TotalPanelCount: 3}},
		{"id mismatch", PanelSet{ID: 5, Specs: []PanelSpec{{WidthFt: 1, HeightFt: 2, Quantity: 3}}, TotalPanelCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog([]PanelSet{tt.set}); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if _, err := NewCatalog(nil); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestCatalogUnknownSet(t *testing.T) {
	_, err := DefaultCatalog().Set(7)
	if !errors.Is(err, ErrUnknownSet) {
		t.Fatalf("expected ErrUnknownSet, got %v", err)
	}
}

func TestInjectedCatalog(t *testing.T) {
	c, err := NewCatalog([]PanelSet{
		{ID: 3, Name: "Small", Specs: []PanelSpec{{WidthFt: 1, HeightFt: 1, Quantity: 3}}, TotalPanelCount: 3, MinWallWidthFt: 2, MaxPanelHeightFt: 1},
		{ID: 5, Name: "Big", Specs: []PanelSpec{{WidthFt: 2, HeightFt: 2, Quantity: 5}}, TotalPanelCount: 5, MinWallWidthFt: 40, MaxPanelHeightFt: 2},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if got := c.SelectBestPanelSet(20, 10); got != 3 {
		t.Errorf("SelectBestPanelSet = %d, want 3", got)
	}
}
