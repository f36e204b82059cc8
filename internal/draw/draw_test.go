package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/pucks/internal/match"
)

func TestScaledSet(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.Set(Point{X: 50, Y: 50}, ColorRed)
	if got := c.Pixel(5, 5); got != ColorRed {
		t.Errorf("pixel (5,5) = %v, want red", got)
	}
	c.Set(Point{X: 500, Y: 500}, ColorRed)
	c.Clear()
	if c.Pixel(5, 5) != ColorNone {
		t.Error("Clear left pixels set")
	}
}

func TestFillCircleCoversCenter(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(Point{X: 10, Y: 10}, 3, ColorGold)
	for _, p := range [][2]int{{10, 10}, {8, 10}, {12, 10}, {10, 8}, {10, 12}} {
		if c.Pixel(p[0], p[1]) != ColorGold {
			t.Errorf("pixel %v not filled", p)
		}
	}
	if c.Pixel(15, 10) != ColorNone {
		t.Error("fill leaked outside radius")
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(Point{X: 1, Y: 0}, ColorRed)

	var first bytes.Buffer
	c.Render(&first)
	if !strings.ContainsRune(first.String(), BlockUpperHalf) {
		t.Fatalf("first render = %q", first.String())
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged frame rendered %q", second.String())
	}

	c.Clear()
	var third bytes.Buffer
	c.Render(&third)
	if !strings.ContainsRune(third.String(), BlockEmpty) {
		t.Errorf("erased cell not blanked: %q", third.String())
	}
}

func TestMarkTextDirtyRepaints(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer
	c.Render(&buf)
	c.MarkTextDirty(2, 1, 2)
	buf.Reset()
	c.Render(&buf)
	if strings.Count(buf.String(), string(BlockEmpty)) != 2 {
		t.Errorf("render after MarkTextDirty = %q", buf.String())
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		cell   cell
		ch     rune
		fg, bg Color
	}{
		{cell{}, BlockEmpty, ColorNone, ColorNone},
		{cell{top: ColorRed}, BlockUpperHalf, ColorRed, ColorNone},
		{cell{bottom: ColorBlue}, BlockLowerHalf, ColorBlue, ColorNone},
		{cell{ColorGold, ColorGold}, BlockFull, ColorGold, ColorNone},
		{cell{ColorRed, ColorBlue}, BlockUpperHalf, ColorRed, ColorBlue},
	}
	for _, tt := range tests {
		ch, fg, bg := glyph(tt.cell)
		if ch != tt.ch || fg != tt.fg || bg != tt.bg {
			t.Errorf("glyph(%v) = %q %v %v", tt.cell, ch, fg, bg)
		}
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := NewScaledCanvas(40, 30, 800, 1200)
	c.SetOffset(5, 2)
	p := c.TerminalToLogical(26, 17)
	col, row := c.LogicalToTerminal(p.X, p.Y)
	if col+c.OffsetCol() != 26 || row+c.OffsetRow() != 17 {
		t.Errorf("round trip = (%d,%d), point %v", col, row, p)
	}
}

func TestDrawRink(t *testing.T) {
	snap := &match.Snapshot{
		Width: 800, Height: 1200, GoalLeft: 280, GoalRight: 520,
		Selected: -1, Hovered: -1,
		Pucks: []match.PuckView{
			{ID: 1, Team: "RED", Type: "STRIKER", X: 400, Y: 900, Radius: 32, Charged: true},
		},
		Lines: []match.LineView{{AX: 100, AY: 600, BX: 700, BY: 600, Crossed: true}},
	}
	c := NewScaledCanvas(40, 30, snap.Width, snap.Height)
	DrawRink(c, snap)
	if c.Pixel(20, 45) != ColorRed {
		t.Errorf("striker center = %v, want charged red", c.Pixel(20, 45))
	}
	if c.Pixel(5, 30) != ColorGold {
		t.Errorf("crossed line pixel = %v", c.Pixel(5, 30))
	}

	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	DrawLabels(c, cw, snap)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "S") {
		t.Errorf("labels = %q", out.String())
	}
}

func TestAimArrowPointsAlongDrag(t *testing.T) {
	c := NewCanvas(100, 50)
	drawAimArrow(c, Point{X: 50, Y: 50}, 5, [2]float64{0, -60}, 0)
	if c.Pixel(50, 5) != ColorNone {
		t.Error("arrow drawn past its tip")
	}
	if c.Pixel(50, 20) != ColorGold {
		t.Errorf("arrow body = %v, want gold", c.Pixel(50, 20))
	}
	if c.Pixel(50, 70) != ColorNone {
		t.Error("arrow drawn behind the puck")
	}

	still := NewCanvas(100, 50)
	drawAimArrow(still, Point{X: 50, Y: 50}, 5, [2]float64{}, 1)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if still.Pixel(x, y) != ColorNone {
				t.Fatalf("zero drag drew at %d,%d", x, y)
			}
		}
	}
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	cw.WriteStyled(2, 4, ColorRed, "x")
	if out.Len() != 0 {
		t.Fatal("wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "\033[3;4Hhi\033[6;5H") || !strings.HasSuffix(got, "x\033[0m") {
		t.Errorf("frame = %q", got)
	}

	out.Reset()
	if err := cw.Flush(); err != nil || out.Len() != 0 {
		t.Errorf("second flush wrote %q, %v", out.String(), err)
	}
}
