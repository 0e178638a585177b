package model

// Instance is the numeric form of a partition handed to a packer. Room
// index i is the only identifier the solvers deal in; Rooms, Names and
// Subject keep the original data for reporting.
type Instance struct {
	Rooms    []string // room IDs, canonical order
	Names    []string // display names, same order
	Students []int
	Capacity []int
	Subject  []string // original form, for reporting
	canon    []string // canonicalized form, for comparison
}

// N is the number of rooms in the instance.
func (inst *Instance) N() int {
	return len(inst.Rooms)
}

// SameSubject reports whether rooms i and j host the same subject, using
// the canonicalized comparison form.
func (inst *Instance) SameSubject(i, j int) bool {
	return inst.canon[i] == inst.canon[j]
}

// CanonSubject returns the canonicalized subject for room i.
func (inst *Instance) CanonSubject(i int) string {
	return inst.canon[i]
}

// BuildInstance normalizes one partition's rows into an Instance,
// preserving input order as the canonical room ordering (spec §4.1).
// Rows with capacity <= 0 or students < 0 are rejected.
func BuildInstance(rows []Row) (*Instance, error) {
	seen := make(map[string]bool, len(rows))
	inst := &Instance{
		Rooms:    make([]string, 0, len(rows)),
		Names:    make([]string, 0, len(rows)),
		Students: make([]int, 0, len(rows)),
		Capacity: make([]int, 0, len(rows)),
		Subject:  make([]string, 0, len(rows)),
		canon:    make([]string, 0, len(rows)),
	}

	for _, r := range rows {
		if r.Capacity <= 0 {
			return nil, &InvalidInputError{RoomID: r.RoomID, Reason: "capacity must be positive"}
		}
		if r.Students < 0 {
			return nil, &InvalidInputError{RoomID: r.RoomID, Reason: "students must not be negative"}
		}
		if seen[r.RoomID] {
			return nil, &InvalidInputError{RoomID: r.RoomID, Reason: "duplicate room_id in partition"}
		}
		seen[r.RoomID] = true

		inst.Rooms = append(inst.Rooms, r.RoomID)
		inst.Names = append(inst.Names, r.name())
		inst.Students = append(inst.Students, r.Students)
		inst.Capacity = append(inst.Capacity, r.Capacity)
		inst.Subject = append(inst.Subject, r.Subject)
		inst.canon = append(inst.canon, canonSubject(r.Subject))
	}

	return inst, nil
}
