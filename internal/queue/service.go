// Package queue implements the virtual queue ticketing core: admission with
// dedup and geofencing, position/ETA estimation, and the ticket state machine.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"mzansicare/internal/geo"
	"mzansicare/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var activeStatuses = []string{models.TicketWaiting, models.TicketCalled}

// FacilityGetter resolves a facility id to its record. Backed by the
// read-through cache in production, by the bare database in tests.
type FacilityGetter interface {
	Get(ctx context.Context, id string) (*models.Facility, error)
}

type dbFacilityGetter struct{ db *gorm.DB }

func (g dbFacilityGetter) Get(ctx context.Context, id string) (*models.Facility, error) {
	var f models.Facility
	if err := g.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: facility %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &f, nil
}

// Service owns all reads and writes of the tickets table. Admission for a
// facility is serialized through a per-facility lock around the
// count-then-insert sequence; status transitions use conditional updates.
type Service struct {
	db         *gorm.DB
	facilities FacilityGetter
	events     EventPublisher
	notifier   Notifier
	now        func() time.Time
	less       LessFunc

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Service)

func WithEvents(p EventPublisher) Option     { return func(s *Service) { s.events = p } }
func WithNotifier(n Notifier) Option         { return func(s *Service) { s.notifier = n } }
func WithClock(now func() time.Time) Option  { return func(s *Service) { s.now = now } }
func WithOrdering(less LessFunc) Option      { return func(s *Service) { s.less = less } }
func WithFacilities(g FacilityGetter) Option { return func(s *Service) { s.facilities = g } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:    db,
		now:   time.Now,
		less:  FIFOOrdering,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.facilities == nil {
		s.facilities = dbFacilityGetter{db: db}
	}
	return s
}

func (s *Service) facilityLock(facilityID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[facilityID] == nil {
		s.locks[facilityID] = &sync.Mutex{}
	}
	return s.locks[facilityID]
}

// JoinRequest is an admission request for a facility queue.
type JoinRequest struct {
	FacilityID string
	UserID     uint
	Reason     string
	Priority   string
	Coords     *geo.Point // caller location; nil skips the geofence
}

var validPriorities = map[string]bool{
	models.PriorityVIP:       true,
	models.PriorityElderly:   true,
	models.PriorityEmergency: true,
}

// Join admits the user to the facility queue. The operation is an idempotent
// "join": if the user already holds an active ticket anywhere, that ticket is
// returned unchanged and created is false.
func (s *Service) Join(ctx context.Context, req JoinRequest) (ticket *models.Ticket, created bool, err error) {
	if req.UserID == 0 {
		return nil, false, ErrUnauthenticated
	}
	if req.FacilityID == "" {
		return nil, false, fmt.Errorf("%w: facilityId required", ErrInvalidArgument)
	}

	// Dedup across all facilities: at most one active ticket per user.
	if existing, err := s.ActiveTicket(ctx, req.UserID); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	facility, err := s.facilities.Get(ctx, req.FacilityID)
	if err != nil {
		return nil, false, err
	}

	if err := s.checkGeofence(facility, req.Coords); err != nil {
		return nil, false, err
	}

	priority := models.PriorityNormal
	if validPriorities[req.Priority] {
		priority = req.Priority
	}

	lock := s.facilityLock(req.FacilityID)
	lock.Lock()
	defer lock.Unlock()

	// One bounded retry: another writer (a second instance, an operator
	// console) may slip a conflicting write between our count and insert.
	for attempt := 0; attempt < 2; attempt++ {
		ticket, err = s.admit(ctx, facility, req.UserID, req.Reason, priority)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConflict) {
			return nil, false, err
		}
		// The conflicting writer is almost always this same user's other
		// join landing first. Join stays idempotent: surface that ticket
		// instead of a 409.
		existing, lookupErr := s.ActiveTicket(ctx, req.UserID)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	if err != nil {
		return nil, false, err
	}

	s.publish(Event{
		Type:       EventTicketCreated,
		FacilityID: ticket.FacilityID,
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
		Position:   ticket.Position,
		EtaMinutes: ticket.EtaMinutes,
	})
	return ticket, true, nil
}

func (s *Service) admit(ctx context.Context, facility *models.Facility, userID uint, reason, priority string) (*models.Ticket, error) {
	ticket := &models.Ticket{
		ID:         uuid.NewString(),
		FacilityID: facility.ID,
		UserID:     userID,
		Reason:     reason,
		Priority:   priority,
		Status:     models.TicketWaiting,
		CreatedAt:  s.now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Fast-path dedup re-check. Under READ COMMITTED this count cannot
		// see a concurrent uncommitted join, so it is advisory only; the
		// partial unique index on user_id over active statuses (see
		// MigrateIndexes) is what actually holds the invariant, failing the
		// second insert into the conflict path below.
		var n int64
		if err := tx.Model(&models.Ticket{}).
			Where("user_id = ? AND status IN ?", userID, activeStatuses).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}

		var ahead int64
		if err := tx.Model(&models.Ticket{}).
			Where("facility_id = ? AND status IN ? AND created_at < ?", facility.ID, activeStatuses, ticket.CreatedAt).
			Count(&ahead).Error; err != nil {
			return err
		}

		ticket.Position = int(ahead) + 1
		ticket.EtaMinutes = etaMinutes(ticket.Position, facility.AvgServiceMinutes)
		return tx.Create(ticket).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ticket, nil
}

func (s *Service) checkGeofence(facility *models.Facility, coords *geo.Point) error {
	// Availability over strictness: missing coordinates on either side skip
	// the check entirely. This is not a security boundary.
	if coords == nil || !facility.HasCoords() || facility.GeofenceRadiusKm <= 0 {
		return nil
	}
	dist := geo.HaversineKm(*coords, geo.Point{Lat: *facility.Lat, Lng: *facility.Lng})
	if dist > facility.GeofenceRadiusKm {
		return fmt.Errorf("%w: %.1f km from %s, geofence is %.0f km",
			ErrFailedPrecondition, dist, facility.Name, facility.GeofenceRadiusKm)
	}
	return nil
}

// etaMinutes models a single-server FIFO queue: the wait is everyone strictly
// ahead of the ticket times the average service duration.
func etaMinutes(position, avgServiceMinutes int) int {
	eta := (position - 1) * avgServiceMinutes
	if eta < 0 {
		return 0
	}
	return eta
}

// ActiveTicket returns the user's waiting or called ticket, or nil.
func (s *Service) ActiveTicket(ctx context.Context, userID uint) (*models.Ticket, error) {
	var t models.Ticket
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, activeStatuses).
		Order("created_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &t, nil
}

// Get loads a ticket by id.
func (s *Service) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var t models.Ticket
	err := s.db.WithContext(ctx).First(&t, "id = ?", ticketID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: ticket %s", ErrNotFound, ticketID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &t, nil
}

// ListFacility returns all tickets at a facility ordered by creation time,
// terminal ones included (they stay on the operator console as history).
func (s *Service) ListFacility(ctx context.Context, facilityID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := s.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("created_at ASC").
		Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tickets, nil
}

// CallNext advances the earliest-admitted waiting ticket at the facility to
// called. Returns nil when nothing is waiting.
func (s *Service) CallNext(ctx context.Context, facilityID string) (*models.Ticket, error) {
	if facilityID == "" {
		return nil, fmt.Errorf("%w: facilityId required", ErrInvalidArgument)
	}

	lock := s.facilityLock(facilityID)
	lock.Lock()
	defer lock.Unlock()

	var waiting []models.Ticket
	if err := s.db.WithContext(ctx).
		Where("facility_id = ? AND status = ?", facilityID, models.TicketWaiting).
		Find(&waiting).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(waiting) == 0 {
		return nil, nil
	}

	sort.Slice(waiting, func(i, j int) bool { return s.less(&waiting[i], &waiting[j]) })
	next := waiting[0]

	if err := s.callTicket(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// CallByID moves a specific waiting ticket to called.
func (s *Service) CallByID(ctx context.Context, ticketID string) error {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status != models.TicketWaiting {
		return fmt.Errorf("%w: ticket is %s", ErrFailedPrecondition, ticket.Status)
	}
	return s.callTicket(ctx, ticket)
}

func (s *Service) callTicket(ctx context.Context, ticket *models.Ticket) error {
	calledAt := s.now().UTC()
	if err := s.transition(ctx, ticket, []string{models.TicketWaiting}, models.TicketCalled, map[string]interface{}{
		"status":    models.TicketCalled,
		"called_at": &calledAt,
	}); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, ticket.UserID,
			"MzansiCare: You are being called",
			"Please proceed to reception.",
			map[string]string{"type": "queue_called", "facilityId": ticket.FacilityID, "ticketId": ticket.ID})
	}
	s.publish(Event{
		Type:       EventTicketCalled,
		FacilityID: ticket.FacilityID,
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
		Position:   ticket.Position,
	})
	return nil
}

// MarkServed completes a called ticket and shifts everyone behind it up.
func (s *Service) MarkServed(ctx context.Context, ticketID string) error {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	closedAt := s.now().UTC()
	if err := s.transition(ctx, ticket, []string{models.TicketCalled}, models.TicketServed, map[string]interface{}{
		"status":    models.TicketServed,
		"closed_at": &closedAt,
	}); err != nil {
		return err
	}

	s.publish(Event{
		Type:       EventTicketServed,
		FacilityID: ticket.FacilityID,
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
	})
	return s.Recompute(ctx, ticket.FacilityID)
}

// Cancel withdraws an active ticket (self-cancel or operator action).
func (s *Service) Cancel(ctx context.Context, ticketID string) error {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	closedAt := s.now().UTC()
	if err := s.transition(ctx, ticket, activeStatuses, models.TicketCancelled, map[string]interface{}{
		"status":    models.TicketCancelled,
		"closed_at": &closedAt,
	}); err != nil {
		return err
	}

	s.publish(Event{
		Type:       EventTicketCancelled,
		FacilityID: ticket.FacilityID,
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
	})
	return s.Recompute(ctx, ticket.FacilityID)
}

// transition applies a conditional update keyed on the expected prior status
// so concurrent operator actions cannot double-call or double-serve. A no-op
// against a terminal ticket reports ErrFailedPrecondition and cascades no
// recompute.
func (s *Service) transition(ctx context.Context, ticket *models.Ticket, from []string, to string, updates map[string]interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		res := s.db.WithContext(ctx).Model(&models.Ticket{}).
			Where("id = ? AND status IN ?", ticket.ID, from).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
		}
		if res.RowsAffected > 0 {
			ticket.Status = to
			return nil
		}

		current, err := s.Get(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if current.Terminal() {
			return fmt.Errorf("%w: ticket already %s", ErrFailedPrecondition, current.Status)
		}
		// Status changed underneath us but is still active; re-read and try
		// once more before surfacing the conflict.
		ticket.Status = current.Status
		if !statusIn(current.Status, from) {
			return fmt.Errorf("%w: ticket is %s", ErrFailedPrecondition, current.Status)
		}
	}
	return ErrConflict
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// Recompute renumbers every active ticket at the facility from scratch:
// position = 1 + active tickets with strictly earlier admission. Runs after
// every departure from the active set so stored positions match the ordering
// invariant at read time.
func (s *Service) Recompute(ctx context.Context, facilityID string) error {
	facility, err := s.facilities.Get(ctx, facilityID)
	if err != nil {
		return err
	}

	var changed []models.Ticket
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []models.Ticket
		if err := tx.Where("facility_id = ? AND status IN ?", facilityID, activeStatuses).
			Find(&active).Error; err != nil {
			return err
		}
		sort.Slice(active, func(i, j int) bool { return s.less(&active[i], &active[j]) })

		for i := range active {
			pos := i + 1
			eta := etaMinutes(pos, facility.AvgServiceMinutes)
			if active[i].Position == pos && active[i].EtaMinutes == eta {
				continue
			}
			if err := tx.Model(&models.Ticket{}).
				Where("id = ?", active[i].ID).
				Updates(map[string]interface{}{"position": pos, "eta_minutes": eta}).Error; err != nil {
				return err
			}
			active[i].Position = pos
			active[i].EtaMinutes = eta
			changed = append(changed, active[i])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, t := range changed {
		s.publish(Event{
			Type:       EventPositionRecalc,
			FacilityID: facilityID,
			TicketID:   t.ID,
			UserID:     t.UserID,
			Position:   t.Position,
			EtaMinutes: t.EtaMinutes,
		})
	}
	return nil
}

// CancelStale cancels active tickets admitted before the horizon. Used by the
// housekeeping task to drain no-shows; the usual cancel path runs so
// recompute and watcher events fire.
func (s *Service) CancelStale(ctx context.Context, horizon time.Time) (int, error) {
	var stale []models.Ticket
	if err := s.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", activeStatuses, horizon).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	cancelled := 0
	for i := range stale {
		if err := s.Cancel(ctx, stale[i].ID); err != nil {
			// Already closed by a concurrent operator action; skip it.
			if errors.Is(err, ErrFailedPrecondition) {
				continue
			}
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *Service) publish(evt Event) {
	if s.events == nil {
		return
	}
	evt.Timestamp = s.now().UTC()
	s.events.PublishQueueEvent(evt)
}
