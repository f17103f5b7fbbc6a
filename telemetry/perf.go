package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a timed section of a simulation tick.
type Phase int

const (
	PhaseAI        Phase = iota // Drives and state choice
	PhasePhysics                // Timers, integration, walls, collision
	PhaseCombat                 // Attack and feint resolution
	PhasePoison                 // Poison stacks
	PhaseLifecycle              // Countdown, fight end, victory window
	numPhases
)

var phaseNames = [numPhases]string{"ai", "physics", "combat", "poison", "lifecycle"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

// tickSample is the timing of one tick.
type tickSample struct {
	total  time.Duration
	phases PhaseTimes
}

// FightPerf aggregates timing over one fight, from the tick that starts it
// through the tick that ends it.
type FightPerf struct {
	Fight   int
	Ticks   int
	Total   time.Duration
	MaxTick time.Duration
	Phases  PhaseTimes
}

// AvgTick returns the mean tick duration of the fight.
func (f FightPerf) AvgTick() time.Duration {
	if f.Ticks == 0 {
		return 0
	}
	return f.Total / time.Duration(f.Ticks)
}

// Share returns the fraction of the fight's time spent in a phase, 0-100.
func (f FightPerf) Share(p Phase) float64 {
	if f.Total <= 0 {
		return 0
	}
	return float64(f.Phases[p]) / float64(f.Total) * 100
}

func (f FightPerf) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("fight", f.Fight),
		slog.Int("ticks", f.Ticks),
		slog.Int64("avg_tick_us", f.AvgTick().Microseconds()),
		slog.Int64("max_tick_us", f.MaxTick.Microseconds()),
	}
	for p := Phase(0); p < numPhases; p++ {
		attrs = append(attrs, slog.Float64(p.String()+"_pct", f.Share(p)))
	}
	return slog.GroupValue(attrs...)
}

// FightPerfCSV is one row of fight_perf.csv.
type FightPerfCSV struct {
	Fight        int     `csv:"fight"`
	Ticks        int     `csv:"ticks"`
	TotalUS      int64   `csv:"total_us"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	AIPct        float64 `csv:"ai_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	CombatPct    float64 `csv:"combat_pct"`
	PoisonPct    float64 `csv:"poison_pct"`
	LifecyclePct float64 `csv:"lifecycle_pct"`
}

func (f FightPerf) ToCSV() FightPerfCSV {
	return FightPerfCSV{
		Fight:        f.Fight,
		Ticks:        f.Ticks,
		TotalUS:      f.Total.Microseconds(),
		AvgTickUS:    f.AvgTick().Microseconds(),
		MaxTickUS:    f.MaxTick.Microseconds(),
		AIPct:        f.Share(PhaseAI),
		PhysicsPct:   f.Share(PhasePhysics),
		CombatPct:    f.Share(PhaseCombat),
		PoisonPct:    f.Share(PhasePoison),
		LifecyclePct: f.Share(PhaseLifecycle),
	}
}

// PerfCollector times the phases of each tick. It keeps a rolling window of
// recent ticks and a running total for the fight in progress.
// A nil collector ignores all calls.
type PerfCollector struct {
	now func() time.Time

	window []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	fight      *FightPerf
	fightEnded bool
	onFight    func(FightPerf)
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (defaults to 30, one second at 30Hz). A nil now uses the wall clock.
func NewPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 30
	}
	if now == nil {
		now = time.Now
	}
	return &PerfCollector{
		now:    now,
		window: make([]tickSample, windowSize),
	}
}

// OnFight registers fn to receive each fight's totals once the fight's last
// tick has been timed.
func (p *PerfCollector) OnFight(fn func(FightPerf)) {
	if p == nil {
		return
	}
	p.onFight = fn
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = p.now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase closes the open phase, if any, and opens ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	if p == nil {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick records the tick into the window and the open fight. If EndFight
// was called during this tick the fight's totals are delivered.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}

	if p.fight == nil {
		return
	}
	p.fight.Ticks++
	p.fight.Total += p.cur.total
	p.fight.MaxTick = max(p.fight.MaxTick, p.cur.total)
	for i, d := range p.cur.phases {
		p.fight.Phases[i] += d
	}
	if p.fightEnded {
		done := *p.fight
		p.fight = nil
		p.fightEnded = false
		if p.onFight != nil {
			p.onFight(done)
		}
	}
}

// BeginFight starts a fight aggregate. The current tick counts toward it.
// An unfinished previous fight is discarded.
func (p *PerfCollector) BeginFight(fight int) {
	if p == nil {
		return
	}
	p.fight = &FightPerf{Fight: fight}
	p.fightEnded = false
}

// EndFight closes the fight aggregate at the end of the current tick.
func (p *PerfCollector) EndFight() {
	if p == nil || p.fight == nil {
		return
	}
	p.fightEnded = true
}

// PerfStats summarizes the rolling window.
type PerfStats struct {
	AvgTick        time.Duration
	MinTick        time.Duration
	MaxTick        time.Duration
	PhaseAvg       PhaseTimes
	PhasePct       [numPhases]float64 // Share of the average tick, 0-100
	TicksPerSecond float64
}

// Stats summarizes the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p == nil || p.filled == 0 {
		return s
	}

	var total time.Duration
	var sums PhaseTimes
	for i, smp := range p.window[:p.filled] {
		total += smp.total
		if i == 0 || smp.total < s.MinTick {
			s.MinTick = smp.total
		}
		s.MaxTick = max(s.MaxTick, smp.total)
		for ph, d := range smp.phases {
			sums[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for ph := range sums {
		s.PhaseAvg[ph] = sums[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the window summary, skipping phases under 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"min_tick_us", s.MinTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for p := Phase(0); p < numPhases; p++ {
		if pct := s.PhasePct[p]; pct > 0.1 {
			attrs = append(attrs, p.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for p := Phase(0); p < numPhases; p++ {
		attrs = append(attrs, slog.Float64(p.String()+"_pct", s.PhasePct[p]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Tick         int     `csv:"tick"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	AIPct        float64 `csv:"ai_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	CombatPct    float64 `csv:"combat_pct"`
	PoisonPct    float64 `csv:"poison_pct"`
	LifecyclePct float64 `csv:"lifecycle_pct"`
}

func (s PerfStats) ToCSV(tick int) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:         tick,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		AIPct:        s.PhasePct[PhaseAI],
		PhysicsPct:   s.PhasePct[PhasePhysics],
		CombatPct:    s.PhasePct[PhaseCombat],
		PoisonPct:    s.PhasePct[PhasePoison],
		LifecyclePct: s.PhasePct[PhaseLifecycle],
	}
}
