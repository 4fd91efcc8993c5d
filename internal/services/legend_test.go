package services

import (
	"testing"

	"github.com/terraincognita07/gymcal/internal/models"
)

func TestDeriveCalendarMarkingsAssignsStableColors(t *testing.T) {
	calendar := models.CalendarMap{
		"2024-01-02": {scheduled("Pull")},
		"2024-01-01": {scheduled("Push"), scheduled("Rest")},
	}

	markings, legend := DeriveCalendarMarkings(calendar, models.LegendMap{}, "2024-01-01")
	if legend["Push"] != 0 || legend["Pull"] != 1 {
		t.Fatalf("expected ascending-date assignment, got %#v", legend)
	}
	if _, ok := legend["Rest"]; ok {
		t.Fatal("Rest must not take a palette color")
	}

	today := markings["2024-01-01"]
	if !today.Selected || today.SelectedColor != SelectedDayColor {
		t.Fatalf("expected today selected, got %#v", today)
	}
	if len(today.Dots) != 2 || today.Dots[1].Color != RestDotColor {
		t.Fatalf("expected rest dot color, got %#v", today.Dots)
	}
	if today.Dots[0].Key == today.Dots[1].Key {
		t.Fatal("dot keys must be unique per date")
	}

	// A new earlier workout must not shift colors already handed out.
	calendar["2023-12-31"] = []models.CalendarEntry{scheduled("Legs")}
	_, regrown := DeriveCalendarMarkings(calendar, legend, "2024-01-01")
	if regrown["Push"] != 0 || regrown["Pull"] != 1 || regrown["Legs"] != 2 {
		t.Fatalf("expected existing colors kept and Legs appended, got %#v", regrown)
	}
}

func TestDeriveCalendarMarkingsStatusColors(t *testing.T) {
	calendar := models.CalendarMap{
		"2024-01-01": {withStatus("Push", models.EntryStatusCompleted), withStatus("Pull", models.EntryStatusMissed), scheduled("Legs")},
	}
	legend := models.LegendMap{"Legs": 3}

	markings, _ := DeriveCalendarMarkings(calendar, legend, "2024-01-05")
	dots := markings["2024-01-01"].Dots
	if dots[0].Color != CompletedDotColor || dots[1].Color != MissedDotColor {
		t.Fatalf("expected status colors, got %#v", dots)
	}
	if dots[2].Color != LegendColor(3) {
		t.Fatalf("expected legend color for Legs, got %s", dots[2].Color)
	}
	if markings["2024-01-01"].Selected {
		t.Fatal("only today is selected")
	}
}

func TestLegendColorWrapsPalette(t *testing.T) {
	if LegendColor(len(LegendPalette)) != LegendColor(0) {
		t.Fatal("expected palette to wrap")
	}
	items := LegendItems(models.LegendMap{"Pull": 1, "Push": 0})
	if len(items) != 2 || items[0].Name != "Push" || items[1].Name != "Pull" {
		t.Fatalf("expected legend items ordered by index, got %#v", items)
	}
}
