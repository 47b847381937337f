package imageproc

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// MaxInlineBytes - лимит Rekognition на размер изображения, переданного байтами в запросе
const MaxInlineBytes = 5 * 1024 * 1024

const (
	minSide     = 64
	scaleStep   = 0.8
	jpegQuality = 85
)

// FitToLimit returns data untouched when it is within maxBytes or cannot be decoded as an image.
// Otherwise the image is downscaled and re-encoded as JPEG until it fits; the second result reports
// whether a re-encode happened.
func FitToLimit(data []byte, maxBytes int) ([]byte, bool) {
	if len(data) <= maxBytes {
		return data, false
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// валидность картинки проверяет внешний сервис
		return data, false
	}

	w := img.Bounds().Dx()
	scale := 1.0
	var last []byte

	for {
		tw := int(float64(w) * scale)
		if tw < minSide {
			break
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, imaging.Resize(img, tw, 0, imaging.Lanczos), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			break
		}
		last = buf.Bytes()
		if len(last) <= maxBytes {
			return last, true
		}
		scale *= scaleStep
	}

	if last == nil {
		return data, false
	}
	return last, true
}
