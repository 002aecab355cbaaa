package wallanalysis

import "testing"

func TestImageFormat(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":               "jpeg",
		"image/webp":               "webp",
		"image/png":                "png",
		"application/octet-stream": "png",
		"":                         "png",
	}
	for in, want := range cases {
		if got := imageFormat(in); got != want {
			t.Errorf("imageFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

type testText string

type testCandidate struct {
	parts []interface{}
}

func TestFirstCandidateText(t *testing.T) {
	parts := func(c testCandidate) []interface{} { return c.parts }

	tests := []struct {
		name       string
		candidates []testCandidate
		want       string
	}{
		{"none", nil, ""},
		{"joins text parts", []testCandidate{{parts: []interface{}{testText("{\"a\":"), 42, testText("1}")}}}, `{"a":1}`},
		{"skips empty candidate", []testCandidate{{}, {parts: []interface{}{testText("second")}}}, "second"},
		{"stops at first with text", []testCandidate{{parts: []interface{}{testText("first")}}, {parts: []interface{}{testText("second")}}}, "first"},
		{"ignores non text", []testCandidate{{parts: []interface{}{[]byte("blob")}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstCandidateText[testText](tt.candidates, parts); got != tt.want {
				t.Errorf("firstCandidateText = %q, want %q", got, tt.want)
			}
		})
	}
}
