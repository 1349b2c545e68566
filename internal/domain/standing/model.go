package standing

const (
	KindWeekly   = "WEEKLY"
	KindOverall  = "OVERALL"
	KindSurvivor = "SURVIVOR"
)

// Standing is one materialized ranking row. Rows are recomputed by the
// aggregation job whenever picks or games change; settlement only reads them.
type Standing struct {
	Kind    string
	UserID  string
	Week    int
	Rank    int
	Tied    bool
	Points  int
	Correct int
	// Missed counts weeks with at least one unpointed pick; the overall
	// last-place bonus only considers users with Missed == 0.
	Missed int
}
