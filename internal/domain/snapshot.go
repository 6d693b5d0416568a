package domain

// Snapshot is a point-in-time copy of the records the engine reads.
type Snapshot struct {
	CheckIns   []CheckInRecord `json:"checkIns"`
	Members    []Member        `json:"members"`
	Activities []Activity      `json:"activities"`
}
