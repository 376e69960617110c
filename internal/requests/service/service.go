// Package service runs the request negotiation simulation: employee
// assignment, quotes with at most one revision per employee, blacklisting
// after a second decline, travel towards the user and completion.
package service

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"roadsaver_backend/internal/events"
	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/config"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Reasons recorded on declined requests and history rows.
const (
	ReasonNoEmployees   = "No available employees. Please try again later."
	ReasonDeclinedTwice = "User declined quote twice"
)

const (
	sideEffectTimeout = 10 * time.Second
	startJitterDeg    = 0.01
)

// SubmitInput carries a new service request.
type SubmitInput struct {
	Username    string
	ServiceType domain.ServiceType
	Message     string
	Location    domain.Location
}

// Service owns every in-flight request. All state lives in memory and is
// guarded by mu; I/O and event publishing happen after mu is released.
type Service struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*tracked
	active   map[string]uuid.UUID
	latest   map[string]uuid.UUID
	closed   bool

	cfg       config.SimulationConfig
	employees EmployeeSource
	recorder  CompletionRecorder
	snapshots SnapshotStore
	bus       events.Bus
	log       *logger.Logger
	clock     Clock
	rng       Rand
}

type tracked struct {
	req   domain.Request
	timer Timer
	// seq invalidates callbacks scheduled before the latest schedule or stop.
	seq  uint64
	trip *trip

	// quote is the snapshot the store should hold; nil means none.
	quote    *domain.QuoteSnapshot
	quoteRev uint64

	// tickets order effect batches; published is the newest one delivered.
	tickets   uint64
	published uint64
}

type trip struct {
	from      domain.Location
	to        domain.Location
	total     time.Duration
	remaining time.Duration
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(s *Service) { s.rng = r }
}

// New creates the simulation service.
func New(
	cfg config.SimulationConfig,
	employees EmployeeSource,
	recorder CompletionRecorder,
	snapshots SnapshotStore,
	bus events.Bus,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		requests:  make(map[uuid.UUID]*tracked),
		active:    make(map[string]uuid.UUID),
		latest:    make(map[string]uuid.UUID),
		cfg:       cfg,
		employees: employees,
		recorder:  recorder,
		snapshots: snapshots,
		bus:       bus,
		log:       log,
		clock:     RealClock(),
		rng:       newGlobalRand(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files a new request and schedules employee assignment.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (domain.Request, error) {
	const op = "requests.Submit"

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return domain.Request{}, apperr.Validation("username is required").WithOp(op)
	}
	if !in.ServiceType.Valid() {
		return domain.Request{}, apperr.Validation("unknown service type").WithOp(op)
	}
	if !validLocation(in.Location) {
		return domain.Request{}, apperr.Validation("location is out of range").WithOp(op)
	}
	message := sanitize.Text(in.Message)
	if message == "" {
		message = in.ServiceType.DefaultMessage()
	}

	var fx effects
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Request{}, apperr.Unavailable("service is shutting down").WithOp(op)
	}
	if existing, ok := s.active[username]; ok {
		s.mu.Unlock()
		return domain.Request{}, apperr.Conflict("you already have an ongoing request").
			WithOp(op).
			WithDetails(map[string]string{"requestId": existing.String()})
	}

	now := s.clock.Now()
	t := &tracked{req: domain.Request{
		ID:           uuid.New(),
		Username:     username,
		ServiceType:  in.ServiceType,
		Message:      message,
		UserLocation: in.Location,
		Status:       domain.StatusPending,
		Declines:     make(map[string]int),
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	s.requests[t.req.ID] = t
	s.active[username] = t.req.ID
	s.latest[username] = t.req.ID

	s.schedule(t, s.cfg.GetSubmitDelay(), s.assign)
	fx.emit(events.RequestSubmitted{
		BaseEvent:   events.NewBaseEventAt(now),
		RequestRef:  ref(t),
		ServiceType: string(in.ServiceType),
		Lat:         in.Location.Lat,
		Lng:         in.Location.Lng,
	})
	s.seal(t, &fx)
	view := t.req.Clone()
	s.mu.Unlock()

	s.flush(ctx, &fx)
	return view, nil
}

// Decline rejects the current quote. The first decline of an employee asks
// for a revised quote; any further decline blacklists the employee for this
// request and searches for another one.
func (s *Service) Decline(ctx context.Context, id uuid.UUID, username string) (domain.Request, error) {
	const op = "requests.Decline"

	var fx effects
	s.mu.Lock()
	t, err := s.owned(op, id, username)
	if err != nil {
		s.mu.Unlock()
		return domain.Request{}, err
	}
	if !t.req.Status.AwaitingResponse() || t.req.Employee == nil {
		s.mu.Unlock()
		return domain.Request{}, apperr.Conflict("there is no quote to decline").WithOp(op)
	}

	name := t.req.Employee.Name
	t.req.Declines[name]++
	if t.req.Declines[name] == 1 && !t.req.Revised {
		s.setStatus(t, domain.StatusRevising)
		s.schedule(t, s.cfg.GetRevisionDelay(), s.step(s.sendRevisedQuote))
	} else {
		s.blacklist(t, &fx)
	}
	s.seal(t, &fx)
	view := t.req.Clone()
	s.mu.Unlock()

	s.flush(ctx, &fx)
	return view, nil
}

// Accept takes the current quote and dispatches the employee.
func (s *Service) Accept(ctx context.Context, id uuid.UUID, username string) (domain.Request, error) {
	const op = "requests.Accept"

	var fx effects
	s.mu.Lock()
	t, err := s.owned(op, id, username)
	if err != nil {
		s.mu.Unlock()
		return domain.Request{}, err
	}
	if !t.req.Status.AwaitingResponse() || t.req.Employee == nil {
		s.mu.Unlock()
		return domain.Request{}, apperr.Conflict("there is no quote to accept").WithOp(op)
	}

	user := t.req.UserLocation
	start := user.Offset(s.jitter(), s.jitter())
	total := s.travelTime(start, user)
	t.trip = &trip{from: start, to: user, total: total, remaining: total}

	t.req.AcceptedCents = t.req.QuoteCents
	t.req.EmployeeLocation = &start
	t.req.EtaSeconds = seconds(total)
	t.req.ETA = domain.FormatETA(total)
	s.setStatus(t, domain.StatusAccepted)
	s.schedule(t, s.cfg.GetTickInterval(), s.step(s.move))

	fx.emit(events.RequestAccepted{
		BaseEvent:    events.NewBaseEventAt(s.clock.Now()),
		RequestRef:   ref(t),
		EmployeeName: t.req.Employee.Name,
		PriceCents:   int64(t.req.AcceptedCents),
		EtaSeconds:   t.req.EtaSeconds,
		ETA:          t.req.ETA,
		EmployeeLat:  start.Lat,
		EmployeeLng:  start.Lng,
	})
	s.seal(t, &fx)
	view := t.req.Clone()
	s.mu.Unlock()

	s.flush(ctx, &fx)
	return view, nil
}

// Cancel abandons an unfinished request and stops its timers.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, username string) (domain.Request, error) {
	const op = "requests.Cancel"

	var fx effects
	s.mu.Lock()
	t, err := s.owned(op, id, username)
	if err != nil {
		s.mu.Unlock()
		return domain.Request{}, err
	}
	if t.req.Status.Finished() {
		s.mu.Unlock()
		return domain.Request{}, apperr.Conflict("request is already finished").WithOp(op)
	}

	previous := t.req.Status
	s.stop(t)
	t.trip = nil
	s.setStatus(t, domain.StatusCancelled)
	s.forgetSnapshot(t, &fx)
	fx.emit(events.RequestCancelled{
		BaseEvent:      events.NewBaseEventAt(s.clock.Now()),
		RequestRef:     ref(t),
		PreviousStatus: string(previous),
	})
	s.scheduleEviction(t)
	s.seal(t, &fx)
	view := t.req.Clone()
	s.mu.Unlock()

	s.flush(ctx, &fx)
	return view, nil
}

// Get returns a request by id.
func (s *Service) Get(_ context.Context, id uuid.UUID) (domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.requests[id]
	if !ok {
		return domain.Request{}, apperr.NotFound("request not found").WithOp("requests.Get")
	}
	return t.req.Clone(), nil
}

// Active returns the user's unfinished request or, failing that, their most
// recent request that has not been evicted yet.
func (s *Service) Active(_ context.Context, username string) (domain.Request, error) {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, index := range []map[string]uuid.UUID{s.active, s.latest} {
		if id, ok := index[username]; ok {
			if t, ok := s.requests[id]; ok {
				return t.req.Clone(), nil
			}
		}
	}
	return domain.Request{}, apperr.NotFound("no request for this user").WithOp("requests.Active")
}

// Snapshot returns the stored copy of the request's latest quote.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (domain.QuoteSnapshot, error) {
	return s.snapshots.Get(ctx, id)
}

// Shutdown stops every pending timer. Later calls to Submit fail.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, t := range s.requests {
		s.stop(t)
	}
}

// =============================================================================
// Scheduled steps
// =============================================================================

// assign picks a random employee that is neither blacklisted for the request
// nor globally excluded. The employee lookup runs without holding mu.
func (s *Service) assign(id uuid.UUID, seq uint64) {
	s.mu.Lock()
	t, ok := s.live(id, seq)
	if !ok || t.req.Status != domain.StatusPending {
		s.mu.Unlock()
		return
	}
	exclude := slices.Clone(t.req.Blacklist)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	candidates, err := s.employees.ListAvailable(ctx, exclude)
	cancel()

	var fx effects
	s.mu.Lock()
	t, ok = s.live(id, seq)
	if !ok || t.req.Status != domain.StatusPending {
		s.mu.Unlock()
		return
	}
	t.timer = nil
	if err != nil {
		s.log.Error("failed to load employees", "request_id", id, "error", err)
		candidates = nil
	}
	candidates = slices.DeleteFunc(candidates, func(e domain.Employee) bool {
		return slices.Contains(t.req.Blacklist, e.Name)
	})

	if len(candidates) == 0 {
		s.noEmployees(t, &fx)
	} else {
		emp := candidates[s.rng.IntN(len(candidates))]
		t.req.Employee = &emp
		t.req.Declines[emp.Name] = 0
		t.req.Revised = false
		t.req.QuoteCents = 0
		t.req.OriginalQuoteCents = 0
		t.req.UpdatedAt = s.clock.Now()
		s.log.SimulationEvent("employee_assigned", id.String(), emp.Name)
		fx.emit(events.EmployeeAssigned{
			BaseEvent:    events.NewBaseEventAt(s.clock.Now()),
			RequestRef:   ref(t),
			EmployeeName: emp.Name,
		})
		s.schedule(t, s.quoteDelay(), s.step(s.sendQuote))
	}
	s.seal(t, &fx)
	s.mu.Unlock()

	s.flush(context.Background(), &fx)
}

func (s *Service) sendQuote(t *tracked, fx *effects) {
	if t.req.Status != domain.StatusPending || t.req.Employee == nil {
		return
	}
	price := t.req.ServiceType.BasePrice()
	t.req.QuoteCents = price
	t.req.OriginalQuoteCents = price
	t.req.Revised = false
	s.setStatus(t, domain.StatusQuoted)
	s.saveSnapshot(t, fx)
	fx.emit(events.QuoteSent{
		BaseEvent:    events.NewBaseEventAt(s.clock.Now()),
		RequestRef:   ref(t),
		EmployeeName: t.req.Employee.Name,
		PriceCents:   int64(price),
	})
}

func (s *Service) sendRevisedQuote(t *tracked, fx *effects) {
	if t.req.Status != domain.StatusRevising || t.req.Employee == nil {
		return
	}
	previous := t.req.QuoteCents
	t.req.QuoteCents = domain.RevisedQuote(previous)
	t.req.Revised = true
	s.setStatus(t, domain.StatusRevised)
	s.saveSnapshot(t, fx)
	fx.emit(events.QuoteRevised{
		BaseEvent:     events.NewBaseEventAt(s.clock.Now()),
		RequestRef:    ref(t),
		EmployeeName:  t.req.Employee.Name,
		PreviousCents: int64(previous),
		PriceCents:    int64(t.req.QuoteCents),
	})
}

func (s *Service) move(t *tracked, fx *effects) {
	if t.req.Status != domain.StatusAccepted || t.trip == nil {
		return
	}
	tr := t.trip
	tr.remaining -= s.cfg.GetTickInterval()
	if tr.remaining <= 0 {
		s.arrive(t, fx)
		return
	}

	progress := 1 - float64(tr.remaining)/float64(tr.total)
	pos := domain.Interpolate(tr.from, tr.to, progress)
	t.req.EmployeeLocation = &pos
	t.req.EtaSeconds = seconds(tr.remaining)
	t.req.ETA = domain.FormatETA(tr.remaining)
	t.req.UpdatedAt = s.clock.Now()

	fx.emit(events.EmployeeMoved{
		BaseEvent:        events.NewBaseEventAt(s.clock.Now()),
		RequestRef:       ref(t),
		EmployeeName:     t.req.Employee.Name,
		Lat:              pos.Lat,
		Lng:              pos.Lng,
		Geohash:          pos.Geohash(),
		RemainingSeconds: t.req.EtaSeconds,
		ETA:              t.req.ETA,
	})
	s.schedule(t, s.cfg.GetTickInterval(), s.step(s.move))
}

func (s *Service) arrive(t *tracked, fx *effects) {
	t.trip.remaining = 0
	dest := t.trip.to
	t.req.EmployeeLocation = &dest
	t.req.EtaSeconds = 0
	t.req.ETA = domain.FormatETA(0)
	s.setStatus(t, domain.StatusInProgress)
	s.log.SimulationEvent("employee_arrived", t.req.ID.String(), t.req.Employee.Name)

	fx.emit(events.EmployeeArrived{
		BaseEvent:    events.NewBaseEventAt(s.clock.Now()),
		RequestRef:   ref(t),
		EmployeeName: t.req.Employee.Name,
		Lat:          dest.Lat,
		Lng:          dest.Lng,
	})
	s.schedule(t, s.cfg.GetArrivalDelay(), s.step(s.complete))
}

func (s *Service) complete(t *tracked, fx *effects) {
	if t.req.Status != domain.StatusInProgress || t.req.Employee == nil {
		return
	}
	t.trip = nil
	s.setStatus(t, domain.StatusCompleted)

	rec := CompletionRecord{
		RequestID:    t.req.ID,
		Username:     t.req.Username,
		EmployeeName: t.req.Employee.Name,
		ServiceType:  t.req.ServiceType,
		PriceCents:   t.req.AcceptedCents,
		FeeCents:     domain.ServiceFee,
		Location:     t.req.UserLocation,
		RequestedAt:  t.req.CreatedAt,
		CompletedAt:  *t.req.FinishedAt,
	}
	fx.do(func(ctx context.Context) {
		if err := s.recorder.RecordCompletion(ctx, rec); err != nil {
			s.log.Error("failed to record completed request", "request_id", rec.RequestID, "error", err)
		}
	})
	s.forgetSnapshot(t, fx)
	fx.emit(events.RequestCompleted{
		BaseEvent:       events.NewBaseEventAt(s.clock.Now()),
		RequestRef:      ref(t),
		EmployeeName:    rec.EmployeeName,
		ServiceType:     string(rec.ServiceType),
		PriceCents:      int64(rec.PriceCents),
		ServiceFeeCents: int64(rec.FeeCents),
		TotalCents:      int64(rec.PriceCents + rec.FeeCents),
	})
	s.scheduleEviction(t)
}

// blacklist drops the current employee after a second decline, records the
// declined attempt and schedules reassignment.
func (s *Service) blacklist(t *tracked, fx *effects) {
	emp := *t.req.Employee
	declines := t.req.Declines[emp.Name]
	if !slices.Contains(t.req.Blacklist, emp.Name) {
		t.req.Blacklist = append(t.req.Blacklist, emp.Name)
	}

	rec := DeclineRecord{
		RequestID:    t.req.ID,
		Username:     t.req.Username,
		EmployeeName: emp.Name,
		ServiceType:  t.req.ServiceType,
		PriceCents:   t.req.QuoteCents,
		Location:     t.req.UserLocation,
		Reason:       ReasonDeclinedTwice,
		RequestedAt:  t.req.CreatedAt,
		DeclinedAt:   s.clock.Now(),
	}
	fx.do(func(ctx context.Context) {
		if err := s.recorder.RecordDecline(ctx, rec); err != nil {
			s.log.Error("failed to record declined quote", "request_id", rec.RequestID, "error", err)
		}
	})
	s.forgetSnapshot(t, fx)

	t.req.Employee = nil
	t.req.QuoteCents = 0
	t.req.OriginalQuoteCents = 0
	t.req.Revised = false
	s.setStatus(t, domain.StatusPending)
	s.log.SimulationEvent("employee_blacklisted", t.req.ID.String(), emp.Name)

	fx.emit(events.EmployeeBlacklisted{
		BaseEvent:    events.NewBaseEventAt(s.clock.Now()),
		RequestRef:   ref(t),
		EmployeeName: emp.Name,
		Declines:     declines,
	})
	s.schedule(t, s.cfg.GetReassignDelay(), s.assign)
}

func (s *Service) noEmployees(t *tracked, fx *effects) {
	t.req.Employee = nil
	t.req.DeclineReason = ReasonNoEmployees
	s.setStatus(t, domain.StatusDeclined)
	s.log.SimulationEvent("no_employees", t.req.ID.String(), "")
	fx.emit(events.NoEmployeesAvailable{
		BaseEvent:  events.NewBaseEventAt(s.clock.Now()),
		RequestRef: ref(t),
		Reason:     ReasonNoEmployees,
	})
	s.scheduleEviction(t)
}

func (s *Service) scheduleEviction(t *tracked) {
	s.schedule(t, s.cfg.GetRetainFinished(), func(id uuid.UUID, seq uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()
		t, ok := s.live(id, seq)
		if !ok {
			return
		}
		delete(s.requests, id)
		if s.latest[t.req.Username] == id {
			delete(s.latest, t.req.Username)
		}
	})
}

// =============================================================================
// Helpers (callers hold mu unless noted)
// =============================================================================

// schedule replaces the request's pending timer with fn after d.
func (s *Service) schedule(t *tracked, d time.Duration, fn func(id uuid.UUID, seq uint64)) {
	s.stop(t)
	if s.closed {
		return
	}
	id, seq := t.req.ID, t.seq
	t.timer = s.clock.AfterFunc(d, func() { fn(id, seq) })
}

// stop cancels the pending timer and invalidates callbacks already running.
func (s *Service) stop(t *tracked) {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
}

// step adapts a state mutation into a timer callback that re-validates the
// request under mu and flushes effects after unlocking.
func (s *Service) step(fn func(t *tracked, fx *effects)) func(id uuid.UUID, seq uint64) {
	return func(id uuid.UUID, seq uint64) {
		var fx effects
		s.mu.Lock()
		t, ok := s.live(id, seq)
		if !ok {
			s.mu.Unlock()
			return
		}
		t.timer = nil
		fn(t, &fx)
		s.seal(t, &fx)
		s.mu.Unlock()
		s.flush(context.Background(), &fx)
	}
}

func (s *Service) live(id uuid.UUID, seq uint64) (*tracked, bool) {
	if s.closed {
		return nil, false
	}
	t, ok := s.requests[id]
	if !ok || t.seq != seq {
		return nil, false
	}
	return t, true
}

func (s *Service) owned(op string, id uuid.UUID, username string) (*tracked, error) {
	t, ok := s.requests[id]
	if !ok {
		return nil, apperr.NotFound("request not found").WithOp(op)
	}
	if t.req.Username != strings.TrimSpace(username) {
		return nil, apperr.Forbidden("request belongs to another user").WithOp(op)
	}
	return t, nil
}

func (s *Service) setStatus(t *tracked, to domain.Status) {
	from := t.req.Status
	if !from.CanTransition(to) {
		s.log.Warn("ignored illegal request transition", "request_id", t.req.ID, "from", from, "to", to)
		return
	}
	now := s.clock.Now()
	t.req.Status = to
	t.req.UpdatedAt = now
	if to.Finished() {
		t.req.FinishedAt = &now
		if s.active[t.req.Username] == t.req.ID {
			delete(s.active, t.req.Username)
		}
	}
	s.log.RequestTransition(t.req.ID.String(), t.req.Username, string(from), string(to))
}

func (s *Service) saveSnapshot(t *tracked, fx *effects) {
	snap := domain.QuoteSnapshot{
		RequestID:          t.req.ID,
		Username:           t.req.Username,
		EmployeeName:       t.req.Employee.Name,
		ServiceType:        t.req.ServiceType,
		PriceCents:         t.req.QuoteCents,
		OriginalPriceCents: t.req.OriginalQuoteCents,
		Revised:            t.req.Revised,
		QuotedAt:           s.clock.Now(),
	}
	t.quote = &snap
	t.quoteRev++
	rev := t.quoteRev
	fx.do(func(ctx context.Context) {
		s.writeSnapshot(ctx, snap.RequestID, &snap)
		s.settleSnapshot(ctx, snap.RequestID, rev)
	})
}

func (s *Service) forgetSnapshot(t *tracked, fx *effects) {
	id := t.req.ID
	t.quote = nil
	t.quoteRev++
	rev := t.quoteRev
	fx.do(func(ctx context.Context) {
		s.writeSnapshot(ctx, id, nil)
		s.settleSnapshot(ctx, id, rev)
	})
}

// settleSnapshot runs without mu after a snapshot write. When a later save
// or delete was decided while the write was in flight, the store is brought
// back in line with the request's current quote.
func (s *Service) settleSnapshot(ctx context.Context, id uuid.UUID, rev uint64) {
	s.mu.Lock()
	t, ok := s.requests[id]
	if ok && t.quoteRev == rev {
		s.mu.Unlock()
		return
	}
	var want *domain.QuoteSnapshot
	if ok && t.quote != nil {
		snap := *t.quote
		want = &snap
	}
	s.mu.Unlock()

	s.writeSnapshot(ctx, id, want)
}

func (s *Service) writeSnapshot(ctx context.Context, id uuid.UUID, snap *domain.QuoteSnapshot) {
	if snap == nil {
		if err := s.snapshots.Delete(ctx, id); err != nil {
			s.log.Error("failed to delete quote snapshot", "request_id", id, "error", err)
		}
		return
	}
	if err := s.snapshots.Save(ctx, *snap); err != nil {
		s.log.Error("failed to store quote snapshot", "request_id", id, "error", err)
	}
}

func (s *Service) quoteDelay() time.Duration {
	lo, hi := s.cfg.GetQuoteDelayRange()
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rng.Int64N(int64(hi-lo)))
}

func (s *Service) jitter() float64 {
	return (s.rng.Float64()*2 - 1) * startJitterDeg
}

// travelTime is the simulated drive duration: real distance at the
// configured speed, at least one tick, at most the configured cap, rounded
// up to whole ticks.
func (s *Service) travelTime(from, to domain.Location) time.Duration {
	tick := s.cfg.GetTickInterval()
	d := domain.TravelTime(from, to, s.cfg.GetTravelSpeedKmh())
	if limit := s.cfg.GetMaxTravel(); limit > 0 && d > limit {
		d = limit
	}
	if d < tick {
		d = tick
	}
	ticks := math.Ceil(float64(d) / float64(tick))
	return time.Duration(ticks) * tick
}

func ref(t *tracked) events.RequestRef {
	return events.RequestRef{RequestID: t.req.ID, Username: t.req.Username}
}

func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func validLocation(l domain.Location) bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180 &&
		!math.IsNaN(l.Lat) && !math.IsNaN(l.Lng)
}

// effects collects work that must run after mu is released.
type effects struct {
	jobs   []func(ctx context.Context)
	events []events.Event

	request uuid.UUID
	ticket  uint64
}

func (fx *effects) do(job func(ctx context.Context)) { fx.jobs = append(fx.jobs, job) }

func (fx *effects) emit(e events.Event) { fx.events = append(fx.events, e) }

// seal stamps fx with the request's next ticket. Callers hold mu.
func (s *Service) seal(t *tracked, fx *effects) {
	t.tickets++
	fx.request = t.req.ID
	fx.ticket = t.tickets
}

// flush runs the jobs, then publishes the events under mu unless a batch
// sealed later for the same request was published first.
func (s *Service) flush(ctx context.Context, fx *effects) {
	if len(fx.jobs) == 0 && len(fx.events) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	for _, job := range fx.jobs {
		job(ctx)
	}
	if len(fx.events) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.requests[fx.request]; ok && fx.ticket != 0 {
		if fx.ticket < t.published {
			s.log.Debug("dropping overtaken request events", "request_id", fx.request, "events", len(fx.events))
			return
		}
		t.published = fx.ticket
	}
	for _, e := range fx.events {
		s.bus.Publish(ctx, e)
	}
}
