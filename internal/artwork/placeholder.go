package artwork

import (
	"bytes"
	"image/png"

	"github.com/fogleman/gg"
)

// Placeholder renders the image shown for albums without cover art: a flat
// tile with a disc glyph. The same bytes are cached under the album's key so
// a missing cover is only searched for once.
func Placeholder(size int) []byte {
	dc := gg.NewContext(size, size)
	dc.SetHexColor("#2d2d2d")
	dc.Clear()

	cx, cy := float64(size)/2, float64(size)/2
	r := float64(size) * 0.3

	dc.SetHexColor("#555555")
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	dc.SetHexColor("#2d2d2d")
	dc.DrawCircle(cx, cy, r*0.25)
	dc.Fill()
	dc.SetHexColor("#777777")
	dc.DrawCircle(cx, cy, r*0.12)
	dc.Fill()

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil
	}
	return buf.Bytes()
}
