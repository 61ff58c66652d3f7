package recorder

// CycleEvent records the outcome of one refresh cycle.
type CycleEvent struct {
	Source      string
	Changed     bool
	Instruments int
	Error       string // empty on success
}

// PricePoint records one instrument's derived state after a rebuild or a
// simulation step.
type PricePoint struct {
	Name         string
	Price        float64
	TrendPercent float64
	Category     string
}

// Recorder persists refresh history for later inspection.
type Recorder interface {
	RecordCycle(evt *CycleEvent) error
	RecordPrices(points []PricePoint) error
	Close() error
}
