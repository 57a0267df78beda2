package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"accommodation/constants"
	"accommodation/models"
	"accommodation/repository"
	"accommodation/services/notification"
	"accommodation/types"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ownerID    = uuid.MustParse("11111111-1111-4111-8111-111111110001")
	customerID = uuid.MustParse("22222222-2222-4222-8222-222222220002")
	strangerID = uuid.MustParse("33333333-3333-4333-8333-333333330003")

	owner    = types.Identity{UserID: ownerID, Role: constants.RoleOwner, Name: "Owner"}
	customer = types.Identity{UserID: customerID, Role: constants.RoleCustomer, Name: "Ani", Email: "ani@example.com", Phone: "0812"}
	stranger = types.Identity{UserID: strangerID, Role: constants.RoleCustomer, Name: "Budi", Email: "budi@example.com"}
	admin    = types.Identity{UserID: uuid.MustParse("44444444-4444-4444-8444-444444440004"), Role: constants.RoleSuperadmin}
)

func ownerWith(id uuid.UUID) types.Identity {
	return types.Identity{UserID: id, Role: constants.RoleOwner}
}

const (
	testPropertyID = "HOT-0001-001"
	testRoomType   = "001-Deluxe Room-1"
	testRoomA      = "HOT-0001-001-101"
	testRoomB      = "HOT-0001-001-102"
	nightlyPrice   = int64(500_000)
)

// clock is a settable time source shared by the services of one fixture
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// day is midnight UTC of the given March 2026 day
func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store *repository.GormStore
	cache *memCache
	clock *clock
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.NewSQLiteStore(repository.MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	f := &fixture{
		store: store,
		cache: newMemCache(),
		clock: &clock{now: day(1).Add(9 * time.Hour)},
	}
	f.svc = NewServices(Deps{
		Store:         f.store,
		Cache:         f.cache,
		Clock:         f.clock.Now,
		Location:      time.UTC,
		BreakfastRate: 50_000,
	}, NewTokenService(""))
	f.seed(t)
	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Properties().Create(ctx, &models.Property{
		ID:           testPropertyID,
		Name:         "Hotel Melati",
		Type:         constants.PropertyTypeHotel,
		Address:      "Jl. Merdeka 1",
		Province:     "Bali",
		TotalRoom:    2,
		ActiveRoom:   2,
		ActiveStatus: constants.ActiveStatusActive,
		OwnerID:      ownerID,
		OwnerName:    "Owner",
	}))
	require.NoError(t, f.store.RoomTypes().Create(ctx, &models.RoomType{
		ID:           testRoomType,
		PropertyID:   testPropertyID,
		Name:         "Deluxe Room",
		Floor:        1,
		Price:        nightlyPrice,
		Capacity:     2,
		ActiveStatus: constants.ActiveStatusActive,
	}))
	rooms := []models.Room{}
	for _, id := range []string{testRoomA, testRoomB} {
		rooms = append(rooms, models.Room{
			ID:                 id,
			RoomTypeID:         testRoomType,
			PropertyID:         testPropertyID,
			Floor:              1,
			Name:               strings.TrimPrefix(id, testPropertyID+"-"),
			AvailabilityStatus: constants.RoomStatusAvailable,
			ActiveRoom:         constants.ActiveStatusActive,
		})
	}
	require.NoError(t, f.store.Rooms().CreateBatch(ctx, rooms))
}

// book creates a Waiting booking for the customer
func (f *fixture) book(t *testing.T, roomID string, in, out time.Time) *BookingDetail {
	t.Helper()
	b, err := f.svc.Bookings.Create(context.Background(), customer, CreateBookingInput{
		RoomID:        roomID,
		CheckIn:       in,
		CheckOut:      out,
		Capacity:      2,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
	})
	require.NoError(t, err)
	return b
}

// confirmed creates and pays a booking
func (f *fixture) confirmed(t *testing.T, roomID string, in, out time.Time) *BookingDetail {
	t.Helper()
	b := f.book(t, roomID, in, out)
	paid, err := f.svc.Bookings.Pay(context.Background(), customer, b.ID)
	require.NoError(t, err)
	return paid
}

func (f *fixture) income(t *testing.T) int64 {
	t.Helper()
	p, err := f.store.Properties().FindByID(context.Background(), testPropertyID)
	require.NoError(t, err)
	return p.Income
}

func (f *fixture) room(t *testing.T, id string) *models.Room {
	t.Helper()
	r, err := f.store.Rooms().FindByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

// memCache is a process-local Cache storing JSON like the Redis implementation does
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, target interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, target)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	_, exists := c.entries[key]
	c.mu.Unlock()
	if exists {
		return false, nil
	}
	return true, c.Set(ctx, key, value, ttl)
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// mockNotifier records published lifecycle events
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMessage(message string) error {
	return m.Called(message).Error(0)
}

func (m *mockNotifier) Publish(event notification.BookingEvent) error {
	return m.Called(event).Error(0)
}
