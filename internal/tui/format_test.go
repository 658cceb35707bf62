package tui

import (
	"math"
	"testing"
)

func TestFormatStat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{0, "0"},
		{0.0005, "5.000e-04"},
		{2500000, "2.500e+06"},
		{123.456, "123.46"},
		{1.5, "1.5000"},
		{0.25, "0.25000"},
		{-42.1, "-42.1000"},
	}
	for _, tt := range tests {
		if got := formatStat(tt.in); got != tt.want {
			t.Errorf("formatStat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate(hello, 10) = %q", got)
	}
	if got := truncate("hello world", 8); got != "hello w…" {
		t.Errorf("truncate(hello world, 8) = %q", got)
	}
	if got := truncate("héllo wörld", 5); got != "héll…" {
		t.Errorf("truncate with multibyte runes = %q", got)
	}
}

func TestFollowCursor(t *testing.T) {
	tests := []struct {
		off, cur, window, extent int
		want                     int
	}{
		{0, 5, 10, 100, 0},   // already visible
		{0, 15, 10, 100, 6},  // scroll down to include
		{20, 5, 10, 100, 5},  // scroll up to include
		{95, 99, 10, 100, 90}, // clamp to the tail
		{0, 0, 10, 3, 0},     // window larger than extent
	}
	for _, tt := range tests {
		if got := followCursor(tt.off, tt.cur, tt.window, tt.extent); got != tt.want {
			t.Errorf("followCursor(%d, %d, %d, %d) = %d, want %d",
				tt.off, tt.cur, tt.window, tt.extent, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("42", 6); got != "    42" {
		t.Errorf("pad(42, 6) = %q", got)
	}
	if got := pad("overlong value", 6); got != "overl…" {
		t.Errorf("pad(overlong, 6) = %q", got)
	}
}
