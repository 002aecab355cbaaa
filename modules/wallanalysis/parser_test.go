package wallanalysis

import (
	"testing"
)

func TestParseWallAnalysisDefaults(t *testing.T) {
	inputs := []string{
		"not json",
		"",
		"{",
		"{\"wallBounds\": }",
		"[1, 2, 3]",
	}
	for _, in := range inputs {
		if got := ParseWallAnalysis(in); got != DefaultEstimate() {
			t.Errorf("ParseWallAnalysis(%q) = %+v, want defaults", in, got)
		}
	}
}

func TestParseWallAnalysisValid(t *testing.T) {
	raw := "Here is the analysis:\n```json\n" + `{
		"wallBounds": {"x": 10, "y": 20.5, "width": 60, "height": 50},
		"wallWidthFt": 14,
		"wallHeightFt": 9,
		"lightingDirection": "Right"
	}` + "\n```"

	got := ParseWallAnalysis(raw)
	want := WallEstimate{
		Bounds:   WallBounds{X: 10, Y: 20.5, Width: 60, Height: 50},
		WidthFt:  14,
		HeightFt: 9,
		Lighting: LightRight,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseWallAnalysisClamps(t *testing.T) {
	raw := `{"wallBounds": {"x": -5, "y": 140, "width": 5, "height": 300}, "wallWidthFt": 999, "wallHeightFt": 1}`
	got := ParseWallAnalysis(raw)

	if got.WidthFt != 30 {
		t.Errorf("WidthFt = %v, want 30", got.WidthFt)
	}
	if got.HeightFt != 6 {
		t.Errorf("HeightFt = %v, want 6", got.HeightFt)
	}
	want := WallBounds{X: 0, Y: 100, Width: 20, Height: 100}
	if got.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", got.Bounds, want)
	}
}

func TestParseWallAnalysisPartial(t *testing.T) {
	raw := `{"wallBounds": {"x": 30, "width": "wide"}, "wallWidthFt": "twelve", "wallHeightFt": 10, "lightingDirection": 3}`
	got := ParseWallAnalysis(raw)

	want := WallEstimate{
		Bounds:   WallBounds{X: 30, Y: DefaultBounds.Y, Width: DefaultBounds.Width, Height: DefaultBounds.Height},
		WidthFt:  DefaultWallWidthFt,
		HeightFt: 10,
		Lighting: DefaultLighting,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseWallAnalysisSkipsProseBraces(t *testing.T) {
	raw := "Result for {photo}:\n" + `{"wallWidthFt": 20, "wallHeightFt": 10, "lightingDirection": "top"}`
	got := ParseWallAnalysis(raw)
	if got.WidthFt != 20 || got.HeightFt != 10 || got.Lighting != LightTop {
		t.Errorf("got %+v, want 20x10 ft lit from top", got)
	}
}

func TestParseWallAnalysisOverflowClamps(t *testing.T) {
	got := ParseWallAnalysis(`{"wallWidthFt": 1e400, "wallHeightFt": -1e400}`)
	if got.WidthFt != MaxWallWidthFt {
		t.Errorf("WidthFt = %v, want %v", got.WidthFt, MaxWallWidthFt)
	}
	if got.HeightFt != MinWallHeightFt {
		t.Errorf("HeightFt = %v, want %v", got.HeightFt, MinWallHeightFt)
	}
}

func TestParseWallAnalysisWrongTypedBounds(t *testing.T) {
	got := ParseWallAnalysis(`{"wallBounds": [1,2,3,4], "wallWidthFt": 20}`)
	if got.Bounds != DefaultBounds {
		t.Errorf("Bounds = %+v, want defaults", got.Bounds)
	}
	if got.WidthFt != 20 {
		t.Errorf("WidthFt = %v, want 20", got.WidthFt)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`prefix {"a": {"b": 1}} suffix {"c": 2}`, `{"a": {"b": 1}}`, true},
		{`{"note": "a } inside"} tail`, `{"note": "a } inside"}`, true},
		{`{"q": "escaped \" quote }"}`, `{"q": "escaped \" quote }"}`, true},
		{`no braces`, "", false},
		{`{"open": 1`, "", false},
		{"Result for {photo}:\n{\"wallWidthFt\": 20}", `{"wallWidthFt": 20}`, true},
		{`{not json} {also not}`, "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractJSONObject(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ExtractJSONObject(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseLighting(t *testing.T) {
	if got := ParseLighting(" TOP-right "); got != LightTopRight {
		t.Errorf("ParseLighting = %q", got)
	}
	if got := ParseLighting("behind"); got != DefaultLighting {
		t.Errorf("ParseLighting(unknown) = %q", got)
	}
}
