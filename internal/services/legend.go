package services

import (
	"sort"
	"strconv"

	"github.com/terraincognita07/gymcal/internal/models"
)

const (
	MissedDotColor    = "#E57373"
	CompletedDotColor = "#4CAF50"
	RestDotColor      = "#B0BEC5"
	SelectedDayColor  = "#00ADF5"
)

var LegendPalette = []string{
	"#FF7043",
	"#42A5F5",
	"#AB47BC",
	"#FFCA28",
	"#26A69A",
	"#EC407A",
	"#7E57C2",
	"#8D6E63",
	"#29B6F6",
	"#D4E157",
}

type CalendarDot struct {
	Key   string `json:"key"`
	Color string `json:"color"`
}

type DateMarking struct {
	Dots          []CalendarDot `json:"dots"`
	Selected      bool          `json:"selected,omitempty"`
	SelectedColor string        `json:"selectedColor,omitempty"`
}

type LegendItem struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func LegendColor(index int) string {
	if index < 0 {
		index = -index
	}
	return LegendPalette[index%len(LegendPalette)]
}

// DeriveCalendarMarkings builds the per-date dots for calendar. Names not
// yet in legend get the next free index in ascending date order; names
// already in legend keep their color. The returned legend includes any new
// assignments and must be persisted by the caller.
func DeriveCalendarMarkings(calendar models.CalendarMap, legend models.LegendMap, today string) (map[string]DateMarking, models.LegendMap) {
	grown := legend.Clone()
	nextIndex := len(grown)
	for _, index := range grown {
		if index >= nextIndex {
			nextIndex = index + 1
		}
	}

	markings := make(map[string]DateMarking, len(calendar))
	for _, date := range calendar.SortedDates() {
		entries := calendar[date]
		dots := make([]CalendarDot, 0, len(entries))
		for position, entry := range entries {
			color := RestDotColor
			if !models.IsRestName(entry.Name) {
				index, ok := grown[entry.Name]
				if !ok {
					index = nextIndex
					grown[entry.Name] = index
					nextIndex++
				}
				color = LegendColor(index)
			}

			switch models.NormalizeEntryStatus(entry.Status) {
			case models.EntryStatusMissed:
				color = MissedDotColor
			case models.EntryStatusCompleted:
				color = CompletedDotColor
			}

			dots = append(dots, CalendarDot{Key: dotKey(date, position), Color: color})
		}

		marking := DateMarking{Dots: dots}
		if date == today {
			marking.Selected = true
			marking.SelectedColor = SelectedDayColor
		}
		markings[date] = marking
	}

	return markings, grown
}

func LegendItems(legend models.LegendMap) []LegendItem {
	names := make([]string, 0, len(legend))
	for name := range legend {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if legend[names[i]] == legend[names[j]] {
			return names[i] < names[j]
		}
		return legend[names[i]] < legend[names[j]]
	})

	items := make([]LegendItem, 0, len(names))
	for _, name := range names {
		items = append(items, LegendItem{Name: name, Color: LegendColor(legend[name])})
	}
	return items
}

func dotKey(date string, position int) string {
	return date + "#" + strconv.Itoa(position)
}
