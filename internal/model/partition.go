package model

import "sort"

// defaultCampus is the sentinel group for rows that carry no explicit
// campus.
const defaultCampus = ""

// PartitionKey identifies one independently-solved group of rows.
type PartitionKey struct {
	SlotKey string
	Campus  string
}

// RowGroup is the set of rows sharing one PartitionKey.
type RowGroup struct {
	Key  PartitionKey
	Rows []Row
}

// Partition groups rows by (slot_key, campus). Group order is not
// meaningful; callers that need deterministic output order sort by Key
// with SortKeys (internal/dispatcher does so before solving and reports
// results in that order).
func Partition(rows []Row) []RowGroup {
	index := make(map[PartitionKey]int)
	var groups []RowGroup

	for _, r := range rows {
		campus := r.Campus
		if campus == "" {
			campus = defaultCampus
		}
		key := PartitionKey{SlotKey: r.SlotKey, Campus: campus}

		if i, ok := index[key]; ok {
			groups[i].Rows = append(groups[i].Rows, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, RowGroup{Key: key, Rows: []Row{r}})
	}

	return groups
}

// SortKeys sorts partition keys into the deterministic (slot, campus)
// order the dispatcher must report results in.
func SortKeys(groups []RowGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key.SlotKey != groups[j].Key.SlotKey {
			return groups[i].Key.SlotKey < groups[j].Key.SlotKey
		}
		return groups[i].Key.Campus < groups[j].Key.Campus
	})
}
