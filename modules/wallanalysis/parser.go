package wallanalysis

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/fallback"
)

// ParseWallAnalysis - 비전 모델 응답 텍스트를 WallEstimate로 변환
//
// Never fails: the first valid JSON object in raw is decoded and every
// field is clamped to its valid range, and any field that is missing or not a
// number falls back to its default. Text without a decodable object yields
// DefaultEstimate().
func ParseWallAnalysis(raw string) WallEstimate {
	est := DefaultEstimate()

	obj, ok := ExtractJSONObject(raw)
	if !ok {
		log.Warn().Int("length", len(raw)).Msg("⚠️  No JSON object in wall analysis response, using defaults")
		return est
	}

	var data map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(obj))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		log.Warn().Err(err).Msg("⚠️  Malformed wall analysis JSON, using defaults")
		return est
	}

	if bounds := fallback.SafeMap(data["wallBounds"]); bounds != nil {
		est.Bounds = WallBounds{
			X:      fallback.ClampedFloat(bounds["x"], MinBoundsOffset, MaxBoundsOffset, DefaultBounds.X),
			Y:      fallback.ClampedFloat(bounds["y"], MinBoundsOffset, MaxBoundsOffset, DefaultBounds.Y),
			Width:  fallback.ClampedFloat(bounds["width"], MinBoundsSize, MaxBoundsSize, DefaultBounds.Width),
			Height: fallback.ClampedFloat(bounds["height"], MinBoundsSize, MaxBoundsSize, DefaultBounds.Height),
		}
	}

	est.WidthFt = fallback.ClampedFloat(data["wallWidthFt"], MinWallWidthFt, MaxWallWidthFt, DefaultWallWidthFt)
	est.HeightFt = fallback.ClampedFloat(data["wallHeightFt"], MinWallHeightFt, MaxWallHeightFt, DefaultWallHeightFt)
	est.Lighting = ParseLighting(fallback.SafeString(data["lightingDirection"], ""))

	return est
}

// ParseLighting normalizes a lighting direction, defaulting to top-left.
func ParseLighting(s string) Lighting {
	switch l := Lighting(strings.ToLower(strings.TrimSpace(s))); l {
	case LightLeft, LightRight, LightTop, LightTopLeft, LightTopRight:
		return l
	}
	return DefaultLighting
}

// ExtractJSONObject returns the first balanced {...} block in text that is
// valid JSON. Braces inside JSON string literals are ignored, and prose such
// as "photo {1}" before the object is skipped.
func ExtractJSONObject(text string) (string, bool) {
	for from := 0; from < len(text); {
		start := strings.IndexByte(text[from:], '{')
		if start < 0 {
			return "", false
		}
		start += from

		if end, ok := balancedEnd(text, start); ok && json.Valid([]byte(text[start:end])) {
			return text[start:end], true
		}
		from = start + 1
	}
	return "", false
}

// balancedEnd returns the index just past the brace that closes text[start].
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
