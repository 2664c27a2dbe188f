package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mzansicare/internal/geo"
	"mzansicare/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	jhbCoords  = geo.Point{Lat: -26.2041, Lng: 28.0473}
	nearCoords = geo.Point{Lat: -26.1141, Lng: 28.0473} // ~10 km north
	farCoords  = geo.Point{Lat: -25.8441, Lng: 28.0473} // ~40 km north
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Facility{}, &models.Ticket{}))
	require.NoError(t, MigrateIndexes(db))
	return db
}

func seedFacility(t *testing.T, db *gorm.DB, id string, coords *geo.Point) *models.Facility {
	t.Helper()
	f := &models.Facility{
		ID:                id,
		Name:              "Test Clinic " + id,
		AvgServiceMinutes: 6,
		GeofenceRadiusKm:  25,
	}
	if coords != nil {
		f.Lat = &coords.Lat
		f.Lng = &coords.Lng
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

// stepClock hands out strictly increasing timestamps so admission order is
// deterministic regardless of wall-clock resolution.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeEvents struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakeEvents) PublishQueueEvent(evt Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
}

func (f *fakeEvents) ofType(typ string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Event
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []uint
	texts []string
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, title, body string, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, userID)
	f.texts = append(f.texts, title+": "+body)
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *fakeEvents, *fakeNotifier) {
	t.Helper()
	events := &fakeEvents{}
	notifier := &fakeNotifier{}
	clock := &stepClock{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewService(db, WithEvents(events), WithNotifier(notifier), WithClock(clock.Now))
	return svc, events, notifier
}

func TestSequentialAdmissions(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", &jhbCoords)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	for n := 1; n <= 4; n++ {
		ticket, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: uint(n)})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, n, ticket.Position, "Nth admitted ticket has position N")
		assert.Equal(t, (n-1)*6, ticket.EtaMinutes)
		assert.Equal(t, models.TicketWaiting, ticket.Status)
		assert.NotEmpty(t, ticket.ID)
	}
}

func TestEmptyFacilityAdmitsAtPositionOne(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "cpt-health", nil)
	svc, _, _ := newTestService(t, db)

	ticket, created, err := svc.Join(context.Background(), JoinRequest{FacilityID: "cpt-health", UserID: 7})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, ticket.Position)
	assert.Equal(t, 0, ticket.EtaMinutes)
}

func TestJoinIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	seedFacility(t, db, "cpt-health", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	first, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	assert.True(t, created)

	// Same facility, same user: the existing ticket comes back untouched.
	second, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// Dedup is system-wide, not per facility.
	third, created, err := svc.Join(ctx, JoinRequest{FacilityID: "cpt-health", UserID: 1})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, third.ID)

	var count int64
	require.NoError(t, db.Model(&models.Ticket{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no duplicate ticket created")
}

// The database, not the application, is the last line of the one-active-
// ticket invariant: the per-facility locks cannot see a join at another
// facility or on another instance.
func TestActiveTicketUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)

	// A write that bypasses the service entirely still cannot create a
	// second active ticket for the user.
	rival := models.Ticket{
		ID:         uuid.NewString(),
		FacilityID: "jhb-central",
		UserID:     1,
		Status:     models.TicketWaiting,
		Position:   2,
		CreatedAt:  time.Now().UTC(),
	}
	err = db.Create(&rival).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The index is partial: a closed ticket frees the slot.
	require.NoError(t, svc.Cancel(ctx, t1.ID))
	_, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	assert.True(t, created)
}

// admit's in-transaction re-check catches a join that raced past the
// pre-check in Join.
func TestAdmitRechecksDedup(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	seedFacility(t, db, "cpt-health", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	_, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)

	facility, err := svc.facilities.Get(ctx, "cpt-health")
	require.NoError(t, err)
	_, err = svc.admit(ctx, facility, 1, "", models.PriorityNormal)
	assert.ErrorIs(t, err, ErrConflict)
}

// A join that loses the race to the user's own concurrent join must come
// back idempotent: the winner's ticket with created=false, not a conflict
// error. The clock hook plants the rival between Join's pre-check and the
// insert, exactly where a concurrent instance would land it.
func TestJoinRaceReturnsExistingTicket(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	ctx := context.Background()

	base := &stepClock{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	var rival models.Ticket
	planted := false
	clock := func() time.Time {
		now := base.Now()
		if !planted {
			planted = true
			rival = models.Ticket{
				ID:         uuid.NewString(),
				FacilityID: "jhb-central",
				UserID:     9,
				Status:     models.TicketWaiting,
				Position:   1,
				CreatedAt:  now.Add(-time.Second),
			}
			require.NoError(t, db.Create(&rival).Error)
		}
		return now
	}
	svc := NewService(db, WithClock(clock))

	ticket, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 9})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rival.ID, ticket.ID)

	var count int64
	require.NoError(t, db.Model(&models.Ticket{}).Where("user_id = ?", 9).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestJoinValidation(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	_, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 0})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = svc.Join(ctx, JoinRequest{FacilityID: "", UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = svc.Join(ctx, JoinRequest{FacilityID: "no-such-clinic", UserID: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeofence(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", &jhbCoords)
	seedFacility(t, db, "no-coords", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	// 40 km out with both coordinate sets known: rejected.
	_, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1, Coords: &farCoords})
	assert.ErrorIs(t, err, ErrFailedPrecondition)

	// 10 km out: admitted.
	ticket, created, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1, Coords: &nearCoords})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, ticket.Position)

	// Facility without coordinates: geofence skipped entirely.
	_, created, err = svc.Join(ctx, JoinRequest{FacilityID: "no-coords", UserID: 2, Coords: &farCoords})
	require.NoError(t, err)
	assert.True(t, created)

	// Caller without coordinates: also skipped.
	_, created, err = svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 3})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCancelShiftsPositions(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, events, _ := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	t2, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 2})
	require.NoError(t, err)
	t3, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 3})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{t1.Position, t2.Position, t3.Position})
	assert.Equal(t, []int{0, 6, 12}, []int{t1.EtaMinutes, t2.EtaMinutes, t3.EtaMinutes})

	require.NoError(t, svc.Cancel(ctx, t1.ID))

	got2, err := svc.Get(ctx, t2.ID)
	require.NoError(t, err)
	got3, err := svc.Get(ctx, t3.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, got2.Position)
	assert.Equal(t, 0, got2.EtaMinutes)
	assert.Equal(t, 2, got3.Position)
	assert.Equal(t, 6, got3.EtaMinutes)

	// Watchers behind the cancelled ticket were told about the shift.
	recalcs := events.ofType(EventPositionRecalc)
	assert.Len(t, recalcs, 2)
}

func TestCallNextSelectsEarliestWaiting(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, notifier := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	t2, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 2})
	require.NoError(t, err)
	t3, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 3})
	require.NoError(t, err)

	// First in, first called.
	called, err := svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)
	require.NotNil(t, called)
	assert.Equal(t, t1.ID, called.ID)
	assert.Equal(t, models.TicketCalled, called.Status)

	// t1 is now called, not waiting: the next call skips it.
	called, err = svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)
	require.NotNil(t, called)
	assert.Equal(t, t2.ID, called.ID)

	require.NoError(t, svc.Cancel(ctx, t3.ID))

	// Nothing left waiting.
	called, err = svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)
	assert.Nil(t, called)

	// Both called patients got a notification.
	assert.Equal(t, []uint{1, 2}, notifier.sent)
	assert.Contains(t, notifier.texts[0], "You are being called")
}

func TestCallNextOnEmptyFacility(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)

	called, err := svc.CallNext(context.Background(), "jhb-central")
	require.NoError(t, err)
	assert.Nil(t, called)
}

func TestTerminalStateGuard(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, events, _ := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, t1.ID))
	before := len(events.events)

	// Cancelling again: no-op with FailedPrecondition, no recompute cascade.
	err = svc.Cancel(ctx, t1.ID)
	assert.ErrorIs(t, err, ErrFailedPrecondition)
	assert.Len(t, events.events, before)

	err = svc.MarkServed(ctx, t1.ID)
	assert.ErrorIs(t, err, ErrFailedPrecondition)

	got, err := svc.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCancelled, got.Status)
}

func TestMarkServedRequiresCalled(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)

	// waiting -> served is not a legal transition.
	err = svc.MarkServed(ctx, t1.ID)
	assert.ErrorIs(t, err, ErrFailedPrecondition)

	_, err = svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)
	require.NoError(t, svc.MarkServed(ctx, t1.ID))

	got, err := svc.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketServed, got.Status)
	assert.NotNil(t, got.ClosedAt)
}

func TestCallByID(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, notifier := newTestService(t, db)
	ctx := context.Background()

	_, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	t2, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 2})
	require.NoError(t, err)

	// Operators may call out of order by explicit id.
	require.NoError(t, svc.CallByID(ctx, t2.ID))
	assert.Equal(t, []uint{2}, notifier.sent)

	err = svc.CallByID(ctx, t2.ID)
	assert.ErrorIs(t, err, ErrFailedPrecondition)
}

// Positions stored after an arbitrary operation sequence must equal a from-
// scratch recomputation: 1 + count of active tickets admitted strictly
// earlier at the same facility.
func TestStoredPositionsMatchRecomputation(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	seedFacility(t, db, "cpt-health", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	var tickets []*models.Ticket
	for n := 1; n <= 6; n++ {
		fid := "jhb-central"
		if n%3 == 0 {
			fid = "cpt-health"
		}
		tk, _, err := svc.Join(ctx, JoinRequest{FacilityID: fid, UserID: uint(n)})
		require.NoError(t, err)
		tickets = append(tickets, tk)
	}

	_, err := svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)
	require.NoError(t, svc.MarkServed(ctx, tickets[0].ID))
	require.NoError(t, svc.Cancel(ctx, tickets[3].ID))
	_, err = svc.CallNext(ctx, "jhb-central")
	require.NoError(t, err)

	var active []models.Ticket
	require.NoError(t, db.Where("status IN ?", activeStatuses).Find(&active).Error)
	require.NotEmpty(t, active)

	for _, tk := range active {
		var earlier int64
		require.NoError(t, db.Model(&models.Ticket{}).
			Where("facility_id = ? AND status IN ? AND created_at < ?", tk.FacilityID, activeStatuses, tk.CreatedAt).
			Count(&earlier).Error)
		assert.EqualValues(t, earlier+1, tk.Position, "ticket %s", tk.ID)
	}
}

func TestActiveTicketLookup(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	got, err := svc.ActiveTicket(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)

	got, err = svc.ActiveTicket(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, t1.ID, got.ID)

	require.NoError(t, svc.Cancel(ctx, t1.ID))

	got, err = svc.ActiveTicket(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "terminal tickets are history, not active")
}

func TestCancelStale(t *testing.T) {
	db := newTestDB(t)
	seedFacility(t, db, "jhb-central", nil)
	svc, _, _ := newTestService(t, db)
	ctx := context.Background()

	t1, _, err := svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 1})
	require.NoError(t, err)
	_, _, err = svc.Join(ctx, JoinRequest{FacilityID: "jhb-central", UserID: 2})
	require.NoError(t, err)

	horizon := t1.CreatedAt.Add(500 * time.Millisecond)
	n, err := svc.CancelStale(ctx, horizon)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCancelled, got.Status)
}

func TestEtaMonotonicInPosition(t *testing.T) {
	prev := -1
	for pos := 1; pos <= 20; pos++ {
		eta := etaMinutes(pos, 6)
		assert.GreaterOrEqual(t, eta, prev)
		prev = eta
	}
	assert.Equal(t, 0, etaMinutes(0, 6), "clamped at zero")
}
