package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	logging "demand-graphs/internal/infra/log"
	"demand-graphs/internal/report"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// Reference canvas; every size below scales with the configured height.
	baseWidth  = 1000
	baseHeight = 600

	marginLeft   = 90.0
	marginRight  = 25.0
	marginTop    = 55.0
	marginBottom = 65.0

	barFill = 0.5 // share of each hour slot covered by its bar

	titleFontSize  = 16.0
	labelFontSize  = 13.0
	tickFontSize   = 11.0
	noteFontSize   = 11.0
	totalFontSize  = 12.0
	yTickTarget    = 6
	yHeadroom      = 1.05
	boxPadding     = 6.0
	boxLineSpacing = 1.3

	// Overlay anchors in axes coordinates (0,0 bottom-left, 1,1 top-right).
	methodsAnchorX = 0.01
	methodsAnchorY = 0.01
	averageAnchorX = 0.99
	averageAnchorY = 0.06
	totalAnchorX   = 0.99
	totalAnchorY   = 0.01
)

var (
	barColor   = color.RGBA{135, 206, 235, 255} // skyblue
	axisColor  = color.RGBA{0, 0, 0, 255}
	gridColor  = color.RGBA{220, 220, 220, 255}
	noteBoxBg  = color.NRGBA{255, 255, 255, 178} // white at 0.7 alpha
	textColor  = color.Black
	background = color.White
)

// Options sizes the canvas and picks fonts. Empty font paths select the
// embedded Go fonts.
type Options struct {
	Width        int
	Height       int
	FontPath     string
	BoldFontPath string
}

// DemandChart draws the hourly payments bar chart of one day.
type DemandChart struct {
	width   int
	height  int
	scale   float64
	regular *truetype.Font
	bold    *truetype.Font
}

// NewDemandChart parses the fonts once so every chart of a run shares them.
func NewDemandChart(opts Options) (*DemandChart, error) {
	if opts.Width <= 0 {
		opts.Width = baseWidth
	}
	if opts.Height <= 0 {
		opts.Height = baseHeight
	}

	regular, err := loadFont(opts.FontPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}
	bold, err := loadFont(opts.BoldFontPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold chart font: %w", err)
	}

	return &DemandChart{
		width:   opts.Width,
		height:  opts.Height,
		scale:   float64(opts.Height) / baseHeight,
		regular: regular,
		bold:    bold,
	}, nil
}

func loadFont(path string, fallback []byte) (*truetype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
		logging.LogInfo("Loaded chart font", zap.String("path", path), zap.Int("size", len(b)))
	}
	return truetype.Parse(data)
}

func (c *DemandChart) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size * c.scale})
}

// Size returns the canvas size in pixels.
func (c *DemandChart) Size() (int, int) { return c.width, c.height }

// Render draws d and writes it to w as PNG.
func (c *DemandChart) Render(w io.Writer, d *report.Daily) error {
	if d == nil {
		return fmt.Errorf("no report to render")
	}
	if len(d.Hourly) == 0 {
		return fmt.Errorf("no hourly data for %s", d.Date)
	}

	dc := gg.NewContext(c.width, c.height)
	dc.SetColor(background)
	dc.Clear()

	s := c.scale
	left := marginLeft * s
	top := marginTop * s
	right := float64(c.width) - marginRight*s
	bottom := float64(c.height) - marginBottom*s
	areaW := right - left
	areaH := bottom - top

	step, axisMin, axisMax := yScale(d.MinHourly().InexactFloat64(), d.MaxHourly().InexactFloat64())
	yOf := func(v float64) float64 {
		return bottom - (v-axisMin)/(axisMax-axisMin)*areaH
	}

	// Grid and y ticks
	dc.SetFontFace(c.face(c.regular, tickFontSize))
	decimals := stepDecimals(step)
	first := int(math.Round(axisMin / step))
	last := int(math.Round(axisMax / step))
	for i := first; i <= last; i++ {
		v := float64(i) * step
		y := yOf(v)
		dc.SetColor(gridColor)
		dc.SetLineWidth(1)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(strconv.FormatFloat(v, 'f', decimals, 64), left-6*s, y, 1, 0.5)
	}

	// Bars and hour labels
	slot := areaW / float64(len(d.Hourly))
	barW := slot * barFill
	zeroY := yOf(0)
	for i, h := range d.Hourly {
		cx := left + slot*(float64(i)+0.5)
		valueY := yOf(h.Amount.InexactFloat64())
		if valueY != zeroY {
			dc.SetColor(barColor)
			dc.DrawRectangle(cx-barW/2, math.Min(valueY, zeroY), barW, math.Abs(zeroY-valueY))
			dc.Fill()
		}

		dc.SetColor(textColor)
		dc.DrawStringAnchored(strconv.Itoa(h.Hour), cx, bottom+6*s, 0.5, 1)
	}

	// Axes frame, plus the zero line when refunds push bars below it
	dc.SetColor(axisColor)
	if axisMin < 0 {
		dc.SetLineWidth(1 * s)
		dc.DrawLine(left, zeroY, right, zeroY)
		dc.Stroke()
	}
	dc.SetLineWidth(1.2 * s)
	dc.DrawRectangle(left, top, areaW, areaH)
	dc.Stroke()

	// Title and axis labels
	dc.SetColor(textColor)
	dc.SetFontFace(c.face(c.regular, titleFontSize))
	dc.DrawStringAnchored(Title(d), left+areaW/2, top/2, 0.5, 0.5)

	dc.SetFontFace(c.face(c.regular, labelFontSize))
	dc.DrawStringAnchored("Hour", left+areaW/2, float64(c.height)-marginBottom*s/3, 0.5, 0.5)

	yLabelX := left - 60*s
	yLabelY := top + areaH/2
	dc.Push()
	dc.RotateAbout(-math.Pi/2, yLabelX, yLabelY)
	dc.DrawStringAnchored("Total Payments (€)", yLabelX, yLabelY, 0.5, 0.5)
	dc.Pop()

	// Annotations
	axes := axesRect{left: left, top: top, width: areaW, height: areaH}
	if lines := d.MethodLines(); len(lines) > 0 {
		c.drawNote(dc, axes, lines, c.face(c.regular, noteFontSize), methodsAnchorX, methodsAnchorY, false)
	}
	c.drawNote(dc, axes, []string{d.AverageLabel()}, c.face(c.regular, noteFontSize), averageAnchorX, averageAnchorY, true)
	c.drawNote(dc, axes, []string{d.TotalLabel()}, c.face(c.bold, totalFontSize), totalAnchorX, totalAnchorY, true)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// Title is the chart heading for d.
func Title(d *report.Daily) string {
	return fmt.Sprintf("Payments Captured per Hour (%s)", report.DisplayDate(d.Date))
}

type axesRect struct {
	left, top, width, height float64
}

// drawNote draws lines inside a translucent white box whose bottom edge sits
// at the anchor. alignRight puts the box's right edge on the anchor.
func (c *DemandChart) drawNote(dc *gg.Context, axes axesRect, lines []string, face font.Face, relX, relY float64, alignRight bool) {
	dc.SetFontFace(face)

	pad := boxPadding * c.scale
	lineH := dc.FontHeight() * boxLineSpacing
	var textW float64
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > textW {
			textW = w
		}
	}
	boxW := textW + 2*pad
	boxH := lineH*float64(len(lines)) + 2*pad

	anchorX := axes.left + relX*axes.width
	anchorY := axes.top + axes.height - relY*axes.height
	boxX := anchorX
	if alignRight {
		boxX = anchorX - boxW
	}
	boxY := anchorY - boxH

	dc.SetColor(noteBoxBg)
	dc.DrawRectangle(boxX, boxY, boxW, boxH)
	dc.Fill()

	dc.SetColor(textColor)
	for i, line := range lines {
		baseline := boxY + pad + lineH*float64(i) + dc.FontHeight()
		x := boxX + pad
		if alignRight {
			w, _ := dc.MeasureString(line)
			x = boxX + boxW - pad - w
		}
		dc.DrawString(line, x, baseline)
	}
}

// yScale picks a 1-2-2.5-5 tick step and an axis range covering min..max.
// The range always includes zero; min is zero unless some bar is negative.
func yScale(min, max float64) (step, axisMin, axisMax float64) {
	if math.IsNaN(min) || math.IsInf(min, 0) || min > 0 {
		min = 0
	}
	if math.IsNaN(max) || math.IsInf(max, 0) || max < 0 {
		max = 0
	}
	if max-min <= 0 {
		return 1, 0, 1
	}
	raw := (max - min) * yHeadroom / yTickTarget
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 2.5:
		step = 2.5 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	axisMax = math.Ceil(max*yHeadroom/step) * step
	axisMin = math.Floor(min*yHeadroom/step) * step
	if axisMin == 0 {
		axisMin = 0 // drop negative zero
	}
	return step, axisMin, axisMax
}

func stepDecimals(step float64) int {
	for d := 0; d < 6; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return d
		}
	}
	return 6
}
