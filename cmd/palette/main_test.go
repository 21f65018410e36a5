package main

import (
	"strings"
	"testing"

	"github.com/evanschultz/roulette/internal/wheel"
)

func TestRunPrintsOneRowPerWedge(t *testing.T) {
	var out strings.Builder
	if err := run([]string{"-n", "3"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, hex := range wheel.Palette(3, wheel.DefaultOptions()) {
		if !strings.Contains(out.String(), hex) {
			t.Fatalf("expected %s in output\n%s", hex, out.String())
		}
	}
	if !strings.Contains(out.String(), "240.0") {
		t.Fatalf("expected third hue in output\n%s", out.String())
	}
}

func TestRunUsesTaskNames(t *testing.T) {
	var out strings.Builder
	if err := run([]string{"-n", "9", "-names", "Cleaning, Cooking,,"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Cleaning") || !strings.Contains(got, "Cooking") {
		t.Fatalf("expected task names in output\n%s", got)
	}
	if strings.Contains(got, "40.0") {
		t.Fatalf("expected names to override -n, got\n%s", got)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"-n", "0"},
		{"-s", "0"},
		{"-l", "1"},
		{"-bogus"},
	}
	for _, args := range cases {
		if err := run(args, &strings.Builder{}); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestContrastColor(t *testing.T) {
	if got := contrastColor("#ffffff"); got != "0" {
		t.Fatalf("expected dark text on white, got %q", got)
	}
	if got := contrastColor("#000000"); got != "15" {
		t.Fatalf("expected light text on black, got %q", got)
	}
	if got := contrastColor("nope"); got != "15" {
		t.Fatalf("expected fallback for bad hex, got %q", got)
	}
}
