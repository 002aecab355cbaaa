package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"math"
	"net/http"

	"github.com/disintegration/imaging"
	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog/log"
)

// DetectMimeType sniffs the content type of an image buffer.
func DetectMimeType(imageData []byte) string {
	return http.DetectContentType(imageData)
}

// DecodeImage - PNG/JPEG/WebP 자동 감지 디코딩
func DecodeImage(imageData []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// EncodePNG - 무손실 PNG 인코딩
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertPNGToWebP - PNG 바이너리를 WebP로 변환
func ConvertPNGToWebP(pngData []byte, quality float32) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Debug().
		Int("png_bytes", len(pngData)).
		Int("webp_bytes", len(webpData)).
		Float32("quality", quality).
		Msg("🔄 PNG converted to WebP")
	return webpData, nil
}

// Letterbox - 비율 유지하며 정사각형 캔버스에 맞춤 (검은 여백)
//
// It returns the padded canvas and the rectangle the source occupies on it,
// which Extract uses to undo the transform.
func Letterbox(src image.Image, size int) (*image.NRGBA, image.Rectangle) {
	b := src.Bounds()
	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	newW := max(1, int(math.Round(float64(b.Dx())*scale)))
	newH := max(1, int(math.Round(float64(b.Dy())*scale)))

	resized := imaging.Resize(src, newW, newH, imaging.Lanczos)
	canvas := imaging.New(size, size, color.NRGBA{A: 0xff})

	offset := image.Pt((size-newW)/2, (size-newH)/2)
	canvas = imaging.Paste(canvas, resized, offset)
	return canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(newW, newH))}
}

// Extract - Letterbox 역변환: content 영역을 잘라 원본 크기로 복원
//
// The edited image may come back at a different square size than it was
// sent; content is scaled by the same ratio before cropping.
func Extract(edited image.Image, content image.Rectangle, sentSize, width, height int) *image.NRGBA {
	b := edited.Bounds()
	if b.Dx() != sentSize || b.Dy() != sentSize {
		sx := float64(b.Dx()) / float64(sentSize)
		sy := float64(b.Dy()) / float64(sentSize)
		content = image.Rect(
			int(math.Round(float64(content.Min.X)*sx)),
			int(math.Round(float64(content.Min.Y)*sy)),
			int(math.Round(float64(content.Max.X)*sx)),
			int(math.Round(float64(content.Max.Y)*sy)),
		)
	}
	content = content.Add(b.Min)
	cropped := imaging.Crop(edited, content)
	return imaging.Resize(cropped, width, height, imaging.Lanczos)
}
