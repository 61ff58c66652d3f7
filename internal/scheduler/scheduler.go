package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"TickerBoard/internal/calculator"
	"TickerBoard/internal/collector"
	"TickerBoard/internal/market"
	"TickerBoard/internal/recorder"
	"TickerBoard/internal/simulator"
	"TickerBoard/internal/view"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the refresh and simulation jobs. Scheduled jobs and user
// interactions all mutate the board behind one mutex, the explicit
// equivalent of the single event loop the dashboard assumes.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Book      *market.Book
	Projector *view.Projector
	Renderer  view.Renderer
	Recorder  recorder.Recorder
	Sim       *simulator.Simulator // nil when simulation is disabled
	WriteBack string               // snapshot path for simulator write-back, "" disables
	Ctx       context.Context

	mu     sync.Mutex
	filter string
	qty    float64
}

// NewScheduler creates a Scheduler. A slow cycle never overlaps the next
// tick: jobs that are still running are skipped, the scheduled pull itself
// being the retry.
func NewScheduler(ctx context.Context, col *collector.Collector, book *market.Book,
	proj *view.Projector, rend view.Renderer, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Collector: col,
		Book:      book,
		Projector: proj,
		Renderer:  rend,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh job and, when a simulator is attached,
// the drift job on its own independent period.
func (s *Scheduler) RegisterAll(refreshInterval, simulateInterval time.Duration) error {
	spec := fmt.Sprintf("@every %s", refreshInterval)
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Sim != nil {
		spec = fmt.Sprintf("@every %s", simulateInterval)
		if _, err := s.Cron.AddFunc(spec, s.simulateTask); err != nil {
			return fmt.Errorf("register simulate task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes one refresh cycle immediately, used for the initial
// load before the first tick fires.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	snap, changed, err := s.Collector.Poll(s.Ctx)
	if err != nil {
		if errors.Is(err, collector.ErrPollInProgress) {
			return
		}
		log.Printf("[ERROR] refresh poll: %v", err)
		s.Renderer.SetStatus(false)
		s.recordCycle(false, s.instrumentCount(), err)
		return
	}
	s.Renderer.SetStatus(true)

	if !changed {
		// Identical payload: no rebuild, no re-render.
		s.recordCycle(false, s.instrumentCount(), nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Book.Apply(snap, time.Now())
	s.renderLocked()
	s.recordCycle(true, s.Book.Len(), nil)
	s.recordPricesLocked()
}

func (s *Scheduler) simulateTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Book.Len() == 0 {
		return // not seeded yet
	}

	s.Sim.Step(s.Book, time.Now())
	s.renderLocked()
	s.recordPricesLocked()

	if s.WriteBack != "" {
		if err := simulator.WriteSnapshot(s.WriteBack, s.Book); err != nil {
			log.Printf("[ERROR] snapshot write-back: %v", err)
		}
	}
}

// HandleSelect switches the active instrument and re-renders. It never
// triggers a re-fetch. Returns false for unknown names.
func (s *Scheduler) HandleSelect(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Book.Select(name) {
		return false
	}
	s.renderLocked()
	return true
}

// HandleFilter applies a watchlist substring filter and re-renders.
func (s *Scheduler) HandleFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
	s.renderLocked()
}

// HandleQuantity updates the calculator quantity from raw input and
// re-renders. Non-numeric input counts as zero.
func (s *Scheduler) HandleQuantity(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.qty = calculator.ParseQuantity(input)
	s.renderLocked()
}

func (s *Scheduler) renderLocked() {
	frame := s.Projector.Project(s.Book, s.filter, s.qty)
	view.Render(s.Renderer, frame)
}

func (s *Scheduler) instrumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Book.Len()
}

func (s *Scheduler) recordCycle(changed bool, instruments int, cycleErr error) {
	evt := &recorder.CycleEvent{
		Source:      s.Collector.Fetcher.Name(),
		Changed:     changed,
		Instruments: instruments,
	}
	if cycleErr != nil {
		evt.Error = cycleErr.Error()
	}
	if err := s.Recorder.RecordCycle(evt); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
}

func (s *Scheduler) recordPricesLocked() {
	points := make([]recorder.PricePoint, 0, s.Book.Len())
	for _, name := range s.Book.Names() {
		inst, _ := s.Book.Get(name)
		points = append(points, recorder.PricePoint{
			Name:         name,
			Price:        inst.Price,
			TrendPercent: inst.Trend.Percent,
			Category:     inst.Category,
		})
	}
	if err := s.Recorder.RecordPrices(points); err != nil {
		log.Printf("[ERROR] record prices: %v", err)
	}
}
