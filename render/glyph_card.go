package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"astraldraw/domain/entities"
)

// CardStyle defines the visual style of a glyph card
type CardStyle struct {
	Width        int
	Height       int
	Padding      int
	RarityColors map[string][3]float64
}

// GlyphCardGenerator renders ticket glyph cards as PNGs
type GlyphCardGenerator struct {
	style CardStyle
}

// NewGlyphCardGenerator creates a new card generator with default style
func NewGlyphCardGenerator() *GlyphCardGenerator {
	return &GlyphCardGenerator{
		style: CardStyle{
			Width:   380,
			Height:  480,
			Padding: 24,
			RarityColors: map[string][3]float64{
				entities.RarityCommon:    {0.75, 0.78, 0.82}, // Steel gray
				entities.RarityRare:      {0.4, 0.7, 1.0},    // Cold blue
				entities.RarityEpic:      {0.72, 0.45, 0.95}, // Violet
				entities.RarityLegendary: {1.0, 0.78, 0.25},  // Gold
			},
		},
	}
}

// GenerateTicketCard renders the card for a minted ticket
func (g *GlyphCardGenerator) GenerateTicketCard(ticket *entities.Ticket, drawTitle string) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("serialNumber", ticket.SerialNumber).
			Debug("Glyph card generation completed")
	}()

	width, height := g.style.Width, g.style.Height
	dc := gg.NewContext(width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	g.drawBackground(dc)

	accent, ok := g.style.RarityColors[ticket.Rarity]
	if !ok {
		accent = g.style.RarityColors[entities.RarityCommon]
	}

	// Card border in the rarity accent
	dc.SetRGB(accent[0], accent[1], accent[2])
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(8, 8, float64(width-16), float64(height-16), 10)
	dc.Stroke()

	titleFace, err := loadFont(gobold.TTF, 18)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	monoFace, err := loadFont(gomono.TTF, 13)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// Draw title
	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	title := drawTitle
	if len(title) > 26 {
		title = title[:25] + "…"
	}
	dc.DrawStringAnchored(title, float64(width)/2, 48, 0.5, 0.5)

	// Rarity label under the title
	dc.SetFontFace(monoFace)
	dc.SetRGB(accent[0], accent[1], accent[2])
	dc.DrawStringAnchored(ticket.Rarity, float64(width)/2, 74, 0.5, 0.5)

	g.drawGlyphRow(dc, ticket.Glyphs, accent)

	// Serial number footer
	dc.SetFontFace(monoFace)
	dc.SetRGB(0.85, 0.85, 0.9)
	dc.DrawStringAnchored(ticket.SerialNumber, float64(width)/2, float64(height)-72, 0.5, 0.5)

	dc.SetRGB(0.55, 0.55, 0.62)
	forged := ticket.CreatedAt.UTC().Format("2006-01-02")
	dc.DrawStringAnchored("Forged "+forged, float64(width)/2, float64(height)-48, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBackground paints a dark vertical gradient with subtle noise
func (g *GlyphCardGenerator) drawBackground(dc *gg.Context) {
	width, height := g.style.Width, g.style.Height
	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		baseR := 0.02 + t*0.03
		baseG := 0.02 + t*0.04
		baseB := 0.06 + t*0.1

		for x := 0; x < width; x++ {
			noise := (float64((x*i)%7) - 3.5) / 255.0
			dc.SetRGB(baseR+noise, baseG+noise, baseB+noise)
			dc.SetPixel(x, i)
		}
	}
}

// drawGlyphRow renders the six glyph sigils in a 3x2 grid.
// The gofont faces do not cover the glyph runes, so each sigil is drawn
// as vector strokes keyed by the rune's position in the glyph table.
func (g *GlyphCardGenerator) drawGlyphRow(dc *gg.Context, glyphs string, accent [3]float64) {
	indices := glyphIndices(glyphs)

	const cell = 96.0
	cols := 3
	gridW := cell * float64(cols)
	startX := (float64(g.style.Width) - gridW) / 2
	startY := 110.0

	for i, idx := range indices {
		col := i % cols
		row := i / cols
		x := startX + float64(col)*cell
		y := startY + float64(row)*cell

		// Cell frame
		dc.SetRGBA(accent[0], accent[1], accent[2], 0.25)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(x+8, y+8, cell-16, cell-16, 6)
		dc.Stroke()

		dc.SetRGB(accent[0], accent[1], accent[2])
		drawSigil(dc, idx, x+cell/2, y+cell/2, 24)
	}
}

// drawSigil draws the vector sigil for symbol index 0 through 9,
// centered at (cx, cy) with the given half-size
func drawSigil(dc *gg.Context, index int, cx, cy, r float64) {
	dc.SetLineWidth(2.5)

	switch index {
	case 0: // Vertical bar between rails
		dc.DrawLine(cx-r, cy-r, cx+r, cy-r)
		dc.DrawLine(cx-r, cy+r, cx+r, cy+r)
		dc.DrawLine(cx, cy-r, cx, cy+r)
	case 1: // Open triangle with stem
		dc.DrawLine(cx-r, cy+r, cx+r, cy+r)
		dc.DrawLine(cx-r, cy+r, cx, cy-r)
		dc.DrawLine(cx+r, cy+r, cx, cy-r)
		dc.DrawLine(cx, cy, cx, cy+r)
	case 2: // Forked rail
		dc.DrawLine(cx, cy-r, cx, cy+r)
		dc.DrawLine(cx, cy, cx-r, cy-r)
		dc.DrawLine(cx, cy, cx+r, cy-r)
	case 3: // Right-pointing chevron box
		dc.DrawLine(cx-r, cy-r, cx+r/2, cy-r)
		dc.DrawLine(cx-r, cy+r, cx+r/2, cy+r)
		dc.DrawLine(cx+r/2, cy-r, cx+r, cy)
		dc.DrawLine(cx+r/2, cy+r, cx+r, cy)
		dc.DrawLine(cx-r, cy-r, cx-r, cy+r)
	case 4: // Triple wave
		for j := 0.0; j < 3; j++ {
			y := cy - r + j*r
			dc.DrawLine(cx-r, y, cx+r, y)
		}
		dc.DrawLine(cx-r, cy-r, cx-r, cy+r)
	case 5: // Bracketed notch
		dc.DrawLine(cx-r, cy-r, cx+r, cy-r)
		dc.DrawLine(cx-r, cy+r, cx+r, cy+r)
		dc.DrawLine(cx-r, cy-r, cx-r, cy)
		dc.DrawLine(cx+r, cy-r, cx+r, cy)
	case 6: // Crossed tee
		dc.DrawLine(cx-r, cy-r, cx+r, cy-r)
		dc.DrawLine(cx, cy-r, cx, cy+r)
		dc.DrawLine(cx-r/2, cy, cx+r/2, cy)
	case 7: // Inverted fork
		dc.DrawLine(cx, cy-r, cx, cy+r)
		dc.DrawLine(cx, cy, cx-r, cy+r)
		dc.DrawLine(cx, cy, cx+r, cy+r)
	case 8: // Angled rail
		dc.DrawLine(cx-r, cy-r, cx-r, cy+r)
		dc.DrawLine(cx-r, cy+r, cx+r, cy+r)
		dc.DrawLine(cx-r, cy-r, cx+r/2, cy-r)
	case 9: // Twin peaks
		dc.DrawLine(cx-r, cy+r, cx-r/2, cy-r)
		dc.DrawLine(cx-r/2, cy-r, cx, cy+r)
		dc.DrawLine(cx, cy+r, cx+r/2, cy-r)
		dc.DrawLine(cx+r/2, cy-r, cx+r, cy+r)
	default:
		dc.DrawCircle(cx, cy, r/2)
	}
	dc.Stroke()
}

// glyphIndices maps each rune of a glyph string to its position in the
// glyph table. Unknown runes map to -1 and render as the fallback sigil.
func glyphIndices(glyphs string) []int {
	var indices []int
	for _, r := range glyphs {
		idx := -1
		for i, g := range entities.Glyphs {
			if g == r {
				idx = i
				break
			}
		}
		indices = append(indices, idx)
	}
	return indices
}

// loadFont loads a font face from embedded TTF data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}
