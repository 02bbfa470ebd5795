package checkin

import (
	"bytes"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// encodePhoto renders a captured frame as JPEG at the flow's fixed quality,
// downscaling so the longest edge fits maxEdge. maxEdge <= 0 disables
// scaling.
func encodePhoto(frame image.Image, quality, maxEdge int) ([]byte, error) {
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if maxEdge > 0 && (width > maxEdge || height > maxEdge) {
		scale := float64(maxEdge) / float64(width)
		if height > width {
			scale = float64(maxEdge) / float64(height)
		}
		scaledW := int(float64(width) * scale)
		scaledH := int(float64(height) * scale)
		if scaledW < 1 {
			scaledW = 1
		}
		if scaledH < 1 {
			scaledH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, bounds, draw.Src, nil)
		frame = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
