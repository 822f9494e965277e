package layout

import (
	"math"
	"reflect"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxUnits float64
		want     []string
	}{
		{"fits on one line", "hello world", 10, []string{"hello world"}},
		{"wraps at budget", "hello world foo", 3.5, []string{"hello", "world", "foo"}},
		{"explicit newline", "first\nsecond", 100, []string{"first", "second"}},
		{"cjk splits between runes", "日本語", 2, []string{"日本", "語"}},
		{"oversized single token kept", "incomprehensibility", 2, []string{"incomprehensibility"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxUnits)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapText(%q, %v) = %q, want %q", tt.text, tt.maxUnits, got, tt.want)
			}
		})
	}
}

func TestEstimateTextUnits(t *testing.T) {
	if got := EstimateTextUnits("abc"); math.Abs(got-1.8) > 0.001 {
		t.Errorf("ascii units = %v, want 1.8", got)
	}
	if got := EstimateTextUnits("日本"); math.Abs(got-2.0) > 0.001 {
		t.Errorf("cjk units = %v, want 2.0", got)
	}
}

func TestFitTextToBox_ShortTextKeepsBaseSize(t *testing.T) {
	fit := FitTextToBox("Hi", 14, 100, 30, true)
	if fit.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", fit.FontSize)
	}
	if len(fit.Lines) != 1 || fit.Lines[0] != "Hi" {
		t.Errorf("Lines = %q", fit.Lines)
	}
	if math.Abs(fit.LineHeight-14*1.1) > 0.001 {
		t.Errorf("LineHeight = %v", fit.LineHeight)
	}
}

func TestFitTextToBox_ShrinksUntilBlockFits(t *testing.T) {
	text := "a rather long sentence that cannot possibly stay on one line"
	fit := FitTextToBox(text, 20, 100, 30, true)

	if fit.FontSize >= 20 {
		t.Errorf("FontSize = %v, expected shrink below the base size", fit.FontSize)
	}
	if fit.FontSize < minFontSize {
		t.Errorf("FontSize = %v, below the floor", fit.FontSize)
	}
	if len(fit.Lines) == 0 {
		t.Fatal("no wrapped lines")
	}
}

func TestFitTextToBox_NoShrink(t *testing.T) {
	fit := FitTextToBox("some words here", 8, 40, 10, false)
	if fit.FontSize != minFontSize {
		t.Errorf("FontSize = %v, want the %v floor", fit.FontSize, minFontSize)
	}
}

func TestChooseFixedFontSize(t *testing.T) {
	tests := []struct {
		name   string
		sizes  []float64
		height int
		want   float64
	}{
		{"median scaled", []float64{10, 20, 30}, 500, 23},
		{"clamped low", []float64{5, 5, 5}, 500, 12},
		{"clamped high", []float64{60, 70, 80}, 500, 32},
		{"empty falls back to height", nil, 1000, 32},
		{"ignores non-positive", []float64{0, -1, 20}, 500, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseFixedFontSize(tt.sizes, tt.height)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("ChooseFixedFontSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFontMetrics(t *testing.T) {
	m, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont failed: %v", err)
	}

	if got := m.TextWidth("", 16); got != 0 {
		t.Errorf("empty text width = %v, want 0", got)
	}

	narrow := m.TextWidth("iii", 16)
	wide := m.TextWidth("WWW", 16)
	if narrow <= 0 || wide <= 0 {
		t.Fatalf("non-positive widths: %v, %v", narrow, wide)
	}
	if narrow >= wide {
		t.Errorf("narrow glyphs measured wider: %v >= %v", narrow, wide)
	}

	small := m.TextWidth("sample", 10)
	large := m.TextWidth("sample", 20)
	if math.Abs(large-2*small) > 0.01 {
		t.Errorf("width not linear in size: %v vs %v", small, large)
	}
}

func TestFontMetrics_ParseGarbage(t *testing.T) {
	if _, err := ParseFont([]byte("not a font")); err == nil {
		t.Error("expected an error")
	}
}

func TestUnitMetrics(t *testing.T) {
	var m UnitMetrics
	if got := m.TextWidth("abc", 10); math.Abs(got-18) > 0.001 {
		t.Errorf("TextWidth = %v, want 18", got)
	}
}
