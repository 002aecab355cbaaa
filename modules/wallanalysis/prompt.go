package wallanalysis

import (
	"fmt"
	"strings"
)

// BuildAnalysisPrompt - 벽 영역/치수 추정용 비전 프롬프트 생성
func BuildAnalysisPrompt(userPrompt string) string {
	var b strings.Builder

	b.WriteString(`You are analyzing a photo of an interior wall where acoustic panels will be hung.

Identify the largest flat, unobstructed wall surface suitable for mounting panels.
Ignore furniture, windows, doors, artwork and ceiling/floor trim.

Respond with ONLY a JSON object, no prose, in exactly this shape:
{
  "wallBounds": {"x": <left edge, % of image width>, "y": <top edge, % of image height>, "width": <% of image width>, "height": <% of image height>},
  "wallWidthFt": <estimated real wall width in feet>,
  "wallHeightFt": <estimated real wall height in feet>,
  "lightingDirection": "<one of: left, right, top, top-left, top-right>"
}
`)
	fmt.Fprintf(&b, "\nConstraints: bounds values are between 0 and 100, width and height at least %.0f.\n", MinBoundsSize)
	fmt.Fprintf(&b, "Wall width is between %.0f and %.0f feet, wall height between %.0f and %.0f feet.\n",
		MinWallWidthFt, MaxWallWidthFt, MinWallHeightFt, MaxWallHeightFt)
	b.WriteString("Use standard room cues (door height ~7 ft, outlet height ~1 ft, ceiling ~8-9 ft) to estimate scale.\n")

	if p := strings.TrimSpace(userPrompt); p != "" {
		fmt.Fprintf(&b, "\nThe user added this note about the wall: %s\n", p)
	}
	return b.String()
}

// BuildEditPrompt - 마스크 편집 파이프라인용 프롬프트
func BuildEditPrompt(userPrompt string) string {
	prompt := "Using the provided room photo and mask, place flat rectangular fabric-wrapped acoustic panels " +
		"exactly inside the white regions of the mask. Keep everything outside the mask unchanged, " +
		"preserving the original lighting, perspective and colors. Panels should cast soft, realistic shadows."
	if p := strings.TrimSpace(userPrompt); p != "" {
		prompt += "\n\nStyle notes from the user: " + p
	}
	return prompt
}
