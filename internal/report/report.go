// Package report turns per-partition assignments into the structured
// result spec.md §4.5 describes: kept rooms with their merge lineage,
// removed rooms with where they went, and the aggregate savings.
package report

import (
	"math"

	"github.com/hanjaya/roommerge/internal/model"
)

// MergedSource is one source room folded into a kept room.
type MergedSource struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Students int    `json:"students"`
}

// KeptRoom is a destination that stayed open, with the sources (if any)
// merged into it.
type KeptRoom struct {
	Name          string         `json:"name"`
	Subject       string         `json:"subject"`
	Students      int            `json:"students"`
	Capacity      int            `json:"capacity"`
	MergedSources []MergedSource `json:"merged_sources"`
}

// RemovedRoom is a source room that was merged away.
type RemovedRoom struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Students int    `json:"students"`
	Capacity int    `json:"capacity"`
	MergedTo string `json:"merged_to"`
}

// PartitionDetail is one partition's contribution to the Result.
type PartitionDetail struct {
	SlotKey      string        `json:"slot"`
	Campus       string        `json:"campus"`
	Initial      int           `json:"initial"`
	Final        int           `json:"final"`
	Saved        int           `json:"saved"`
	KeptRooms    []KeptRoom    `json:"kept_rooms_data"`
	RemovedRooms []RemovedRoom `json:"removed_rooms_data"`
}

// Overall is the cross-partition aggregate.
type Overall struct {
	InitialRooms      int     `json:"initial_rooms"`
	FinalRooms        int     `json:"final_rooms"`
	RoomsSaved        int     `json:"rooms_saved"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
}

// Result is the core's full output.
type Result struct {
	Overall Overall           `json:"overall"`
	Details []PartitionDetail `json:"details"`
}

// BuildDetail derives one partition's PartitionDetail from its solved
// Instance and Assignment.
func BuildDetail(key model.PartitionKey, inst *model.Instance, assign model.Assignment) PartitionDetail {
	open := assign.OpenRooms()

	hostedBy := make(map[int][]int, len(open))
	totalStudents := make(map[int]int, len(open))
	for i, dest := range assign {
		totalStudents[dest] += inst.Students[i]
		if dest != i {
			hostedBy[dest] = append(hostedBy[dest], i)
		}
	}

	kept := make([]KeptRoom, 0, len(open))
	for _, j := range open {
		var merged []MergedSource
		for _, i := range hostedBy[j] {
			merged = append(merged, MergedSource{
				Name:     inst.Names[i],
				Subject:  inst.Subject[i],
				Students: inst.Students[i],
			})
		}
		kept = append(kept, KeptRoom{
			Name:          inst.Names[j],
			Subject:       inst.Subject[j],
			Students:      totalStudents[j],
			Capacity:      inst.Capacity[j],
			MergedSources: merged,
		})
	}

	var removed []RemovedRoom
	for i, dest := range assign {
		if dest == i {
			continue
		}
		removed = append(removed, RemovedRoom{
			Name:     inst.Names[i],
			Subject:  inst.Subject[i],
			Students: inst.Students[i],
			Capacity: inst.Capacity[i],
			MergedTo: inst.Names[dest],
		})
	}

	n := inst.N()
	final := len(open)
	return PartitionDetail{
		SlotKey:      key.SlotKey,
		Campus:       key.Campus,
		Initial:      n,
		Final:        final,
		Saved:        n - final,
		KeptRooms:    kept,
		RemovedRooms: removed,
	}
}

// Assemble folds the per-partition details into a Result, computing the
// aggregate savings and efficiency_percent (rounded to 2 decimal places
// per spec.md §9).
func Assemble(details []PartitionDetail) Result {
	var overall Overall
	for _, d := range details {
		overall.InitialRooms += d.Initial
		overall.FinalRooms += d.Final
		overall.RoomsSaved += d.Saved
	}

	if overall.InitialRooms > 0 {
		pct := 100 * float64(overall.RoomsSaved) / float64(overall.InitialRooms)
		overall.EfficiencyPercent = math.Round(pct*100) / 100
	}

	return Result{Overall: overall, Details: details}
}
