package parser

import (
	"sort"

	"github.com/jsphweid/sound2sight/model"
)

// Merge concatenates per-track event lists and orders them by tick. Events at
// the same tick keep their input order, so the result is reproducible.
func Merge(tracks ...[]model.Event) []model.Event {
	var res []model.Event
	for _, events := range tracks {
		for _, evt := range events {
			evt.Index = len(res)
			res = append(res, evt)
		}
	}
	SortByTick(res)
	return res
}

func SortByTick(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
}
