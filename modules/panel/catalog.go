package panel

import (
	"errors"
	"fmt"
	"sort"
)

// SetID - 패널 세트 식별자 (세트에 포함된 패널 수와 동일)
type SetID int

const (
	Set3  SetID = 3
	Set5  SetID = 5
	Set10 SetID = 10
)

// MountingClearanceFt - 가장 높은 패널 위아래로 확보해야 하는 여유 높이
const MountingClearanceFt = 2.0

var ErrUnknownSet = errors.New("unknown panel set")

// PanelSpec - 물리 패널 한 종류와 수량
type PanelSpec struct {
	WidthFt  float64 `json:"widthFt"`
	HeightFt float64 `json:"heightFt"`
	Quantity int     `json:"quantity"`
}

// PanelSet - 카탈로그 티어 하나
type PanelSet struct {
	ID               SetID       `json:"id"`
	Name             string      `json:"name"`
	Specs            []PanelSpec `json:"specs"`
	TotalPanelCount  int         `json:"totalPanelCount"`
	MinWallWidthFt   float64     `json:"minWallWidthFt"`
	MaxPanelHeightFt float64     `json:"maxPanelHeightFt"`
}

// IndividualPanel - 수량을 펼친 패널 인스턴스
type IndividualPanel struct {
	WidthFt  float64
	HeightFt float64
}

// Validate checks the count invariant and that every spec is physically sane.
func (s PanelSet) Validate() error {
	sum := 0
	for i, spec := range s.Specs {
		if spec.WidthFt <= 0 || spec.HeightFt <= 0 {
			return fmt.Errorf("set %d spec[%d]: dimensions must be positive", s.ID, i)
		}
		if spec.Quantity < 1 {
			return fmt.Errorf("set %d spec[%d]: quantity must be >= 1", s.ID, i)
		}
		sum += spec.Quantity
	}
	if sum != s.TotalPanelCount {
		return fmt.Errorf("set %d: spec quantities sum to %d, want %d", s.ID, sum, s.TotalPanelCount)
	}
	if int(s.ID) != s.TotalPanelCount {
		return fmt.Errorf("set %d: id does not match panel count %d", s.ID, s.TotalPanelCount)
	}
	return nil
}

// Expand repeats each spec by its quantity, in catalog order.
func (s PanelSet) Expand() []IndividualPanel {
	panels := make([]IndividualPanel, 0, s.TotalPanelCount)
	for _, spec := range s.Specs {
		for i := 0; i < spec.Quantity; i++ {
			panels = append(panels, IndividualPanel{WidthFt: spec.WidthFt, HeightFt: spec.HeightFt})
		}
	}
	return panels
}

// TotalWidthFt is the summed width of every panel in the set, gaps excluded.
func (s PanelSet) TotalWidthFt() float64 {
	total := 0.0
	for _, spec := range s.Specs {
		total += spec.WidthFt * float64(spec.Quantity)
	}
	return total
}

// Catalog is a read-only table of panel sets. Build one with NewCatalog or
// DefaultCatalog and share it freely; nothing mutates it after construction.
type Catalog struct {
	sets map[SetID]PanelSet
	ids  []SetID // descending panel count
}

// NewCatalog validates the given sets and indexes them.
func NewCatalog(sets []PanelSet) (*Catalog, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("catalog needs at least one panel set")
	}

	c := &Catalog{sets: make(map[SetID]PanelSet, len(sets))}
	for _, s := range sets {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.sets[s.ID]; dup {
			return nil, fmt.Errorf("duplicate panel set %d", s.ID)
		}
		specs := make([]PanelSpec, len(s.Specs))
		copy(specs, s.Specs)
		s.Specs = specs
		c.sets[s.ID] = s
		c.ids = append(c.ids, s.ID)
	}
	sort.Slice(c.ids, func(i, j int) bool {
		return c.sets[c.ids[i]].TotalPanelCount > c.sets[c.ids[j]].TotalPanelCount
	})
	return c, nil
}

// DefaultCatalog returns the production 3/5/10 panel tiers.
//
// Minimum widths are sum(panel widths) + (n-1) x 0.5 ft default gap, rounded up
// with a margin: Trio 3+1=4 -> 5, Quintet 5+2=7 -> 8, Gallery 12+4.5=16.5 -> 18.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]PanelSet{
		{
			ID:   Set3,
			Name: "Trio",
			Specs: []PanelSpec{
				{WidthFt: 1, HeightFt: 4, Quantity: 1},
				{WidthFt: 1, HeightFt: 3, Quantity: 2},
			},
			TotalPanelCount:  3,
			MinWallWidthFt:   5,
			MaxPanelHeightFt: 4,
		},
		{
			ID:   Set5,
			Name: "Quintet",
			Specs: []PanelSpec{
				{WidthFt: 1, HeightFt: 4, Quantity: 1},
				{WidthFt: 1, HeightFt: 3, Quantity: 2},
				{WidthFt: 1, HeightFt: 2, Quantity: 2},
			},
			TotalPanelCount:  5,
			MinWallWidthFt:   8,
			MaxPanelHeightFt: 4,
		},
		{
			ID:   Set10,
			Name: "Gallery",
			Specs: []PanelSpec{
				{WidthFt: 2, HeightFt: 5, Quantity: 2},
				{WidthFt: 1, HeightFt: 4, Quantity: 2},
				{WidthFt: 1, HeightFt: 3, Quantity: 3},
				{WidthFt: 1, HeightFt: 2, Quantity: 3},
			},
			TotalPanelCount:  10,
			MinWallWidthFt:   18,
			MaxPanelHeightFt: 5,
		},
	})
	if err != nil {
		// static table; a failure here is a programming error
		panic(err)
	}
	return c
}

// Set looks up a panel set by id.
func (c *Catalog) Set(id SetID) (PanelSet, error) {
	s, ok := c.sets[id]
	if !ok {
		return PanelSet{}, fmt.Errorf("%w: %d", ErrUnknownSet, id)
	}
	return s, nil
}

// Sets returns all sets, largest first.
func (c *Catalog) Sets() []PanelSet {
	out := make([]PanelSet, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.sets[id])
	}
	return out
}

// SelectBestPanelSet - 벽 크기에 들어가는 가장 큰 세트 선택
//
// Candidates are tried from the largest panel count down; the first one whose
// minimum wall width fits and whose tallest panel leaves MountingClearanceFt
// of headroom wins. When nothing fits the smallest set is returned.
func (c *Catalog) SelectBestPanelSet(wallWidthFt, wallHeightFt float64) SetID {
	for _, id := range c.ids {
		s := c.sets[id]
		if s.MinWallWidthFt <= wallWidthFt && wallHeightFt >= s.MaxPanelHeightFt+MountingClearanceFt {
			return id
		}
	}
	return c.ids[len(c.ids)-1]
}
