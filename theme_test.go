package main

import "testing"

func TestLoadThemePalette_Known(t *testing.T) {
	palette, err := LoadThemePalette("dracula")
	if err != nil {
		t.Fatalf("expected dracula theme to load: %v", err)
	}
	if palette.Keyword == "" || palette.Text == "" || palette.MatchBG == "" || palette.AddedBG == "" {
		t.Fatalf("theme palette has empty core colors: %+v", palette)
	}
}

func TestLoadThemePalette_Unknown(t *testing.T) {
	if _, err := LoadThemePalette("this-theme-does-not-exist"); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestMix(t *testing.T) {
	if got := mix("#000000", "#FFFFFF", 0.5); got != "#808080" {
		t.Fatalf("mix = %s, want #808080", got)
	}
	if got := mix("#000000", "nope", 0.5); got != "#000000" {
		t.Fatalf("mix with bad input = %s, want background", got)
	}
}
