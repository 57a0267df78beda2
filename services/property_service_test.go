package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"accommodation/constants"
	apperrors "accommodation/errors"
	"accommodation/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls int
	fail  bool
}

func (u *fakeUploader) Upload(_ context.Context, src io.Reader, folder string) (string, error) {
	if u.fail {
		return "", errors.New("upstream down")
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	u.calls++
	return fmt.Sprintf("https://img.example.com/%s/%d.jpg", folder, u.calls), nil
}

func suite(floor, rooms int) RoomTypeInput {
	return RoomTypeInput{Name: "suite", Floor: floor, Price: 1_500_000, Capacity: 2, TotalRoom: rooms}
}

func TestCreateProperty_WithRoomTypes(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Properties.Create(context.Background(), owner, CreatePropertyInput{
		Name:      " Villa Kenanga ",
		Type:      constants.PropertyTypeHotel,
		Address:   "Jl. Kenanga 2",
		Province:  "Bali",
		RoomTypes: []RoomTypeInput{suite(2, 2)},
	})

	require.NoError(t, err)
	assert.Equal(t, "HOT-0001-002", p.ID)
	assert.Equal(t, "Villa Kenanga", p.Name)
	assert.Equal(t, 2, p.TotalRoom)
	assert.Equal(t, 2, p.ActiveRoom)
	require.Len(t, p.RoomTypes, 1)
	assert.Equal(t, "002-Suite-2", p.RoomTypes[0].ID)
	require.Len(t, p.RoomTypes[0].Rooms, 2)
	assert.Equal(t, "HOT-0001-002-201", p.RoomTypes[0].Rooms[0].ID)
	assert.Equal(t, "HOT-0001-002-202", p.RoomTypes[0].Rooms[1].ID)

	stored, err := f.store.Properties().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalRoom)
}

func TestCreateProperty_Validation(t *testing.T) {
	base := func() CreatePropertyInput {
		return CreatePropertyInput{Name: "Hotel Mawar", Type: constants.PropertyTypeHotel, Address: "Jl. Mawar", Province: "Bali"}
	}
	cases := []struct {
		name   string
		mutate func(in *CreatePropertyInput)
	}{
		{"missing name", func(in *CreatePropertyInput) { in.Name = "  " }},
		{"missing province", func(in *CreatePropertyInput) { in.Province = "" }},
		{"unknown type", func(in *CreatePropertyInput) { in.Type = 9 }},
		{"room type not in catalogue", func(in *CreatePropertyInput) {
			in.RoomTypes = []RoomTypeInput{{Name: "Pool Villa", Floor: 1, Capacity: 2, TotalRoom: 1}}
		}},
		{"floor zero", func(in *CreatePropertyInput) { in.RoomTypes = []RoomTypeInput{suite(0, 1)} }},
		{"same room type twice on a floor", func(in *CreatePropertyInput) {
			in.RoomTypes = []RoomTypeInput{suite(1, 1), suite(1, 1)}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := base()
			tc.mutate(&in)

			_, err := f.svc.Properties.Create(context.Background(), owner, in)

			assert.True(t, apperrors.IsValidation(err), "got %v", err)
			count, _ := f.store.Properties().Count(context.Background())
			assert.Equal(t, int64(1), count, "nothing is persisted on failure")
		})
	}
}

func TestCreateProperty_Roles(t *testing.T) {
	f := newFixture(t)
	in := CreatePropertyInput{Name: "Hotel Mawar", Type: constants.PropertyTypeHotel, Address: "Jl. Mawar", Province: "Bali"}

	_, err := f.svc.Properties.Create(context.Background(), customer, in)
	assert.True(t, apperrors.IsAccessDenied(err))

	other := uuid.MustParse("55555555-5555-4555-8555-55555555beef")
	in.OwnerID, in.OwnerName = other, "Dewi"
	p, err := f.svc.Properties.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, other, p.OwnerID)
	assert.Equal(t, "HOT-BEEF-002", p.ID)
}

func TestRoomType_CreateNumbersAfterExistingRooms(t *testing.T) {
	f := newFixture(t)

	rt, err := f.svc.RoomTypes.Create(context.Background(), owner, testPropertyID, suite(1, 2))

	require.NoError(t, err)
	assert.Equal(t, "001-Suite-1", rt.ID)
	require.Len(t, rt.Rooms, 2)
	assert.Equal(t, testPropertyID+"-103", rt.Rooms[0].ID)
	assert.Equal(t, testPropertyID+"-104", rt.Rooms[1].ID)
	p, err := f.store.Properties().FindByID(context.Background(), testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, 4, p.TotalRoom)
}

func TestRoomType_FloorHoldsAtMost99Rooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RoomTypes.Create(ctx, owner, testPropertyID, suite(1, 98))
	assert.True(t, apperrors.IsValidation(err), "got %v", err)
	p, err := f.store.Properties().FindByID(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalRoom)

	rt, err := f.svc.RoomTypes.Create(ctx, owner, testPropertyID, suite(1, 97))
	require.NoError(t, err)
	assert.Equal(t, testPropertyID+"-199", rt.Rooms[len(rt.Rooms)-1].ID)
}

func TestRoomType_DuplicateNameOnFloorRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RoomTypes.Create(context.Background(), owner, testPropertyID,
		RoomTypeInput{Name: "deluxe room", Floor: 1, Price: 100, Capacity: 2})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.RoomTypes.Create(context.Background(), owner, testPropertyID,
		RoomTypeInput{Name: "deluxe room", Floor: 2, Price: 100, Capacity: 2})
	assert.NoError(t, err)
}

func TestRoomType_UpdateChangesPriceForNewBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	price := int64(700_000)

	_, err := f.svc.RoomTypes.Update(ctx, ownerWith(uuid.New()), testRoomType, RoomTypeUpdate{Price: &price})
	assert.True(t, apperrors.IsAccessDenied(err))

	rt, err := f.svc.RoomTypes.Update(ctx, owner, testRoomType, RoomTypeUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, rt.Price)

	b := f.book(t, testRoomA, day(10), day(11))
	assert.Equal(t, price, b.TotalPrice)

	negative := int64(-1)
	_, err = f.svc.RoomTypes.Update(ctx, owner, testRoomType, RoomTypeUpdate{Price: &negative})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := "Hotel Melati Baru"

	_, err := f.svc.Properties.Update(ctx, ownerWith(uuid.New()), testPropertyID, UpdatePropertyInput{Name: &name})
	assert.True(t, apperrors.IsAccessDenied(err))

	d, err := f.svc.Properties.Update(ctx, owner, testPropertyID, UpdatePropertyInput{
		Name:      &name,
		RoomTypes: []RoomTypeInput{suite(3, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, name, d.Name)
	assert.Equal(t, 3, d.TotalRoom)
	assert.Len(t, d.RoomTypes, 2)

	empty := " "
	_, err = f.svc.Properties.Update(ctx, owner, testPropertyID, UpdatePropertyInput{Name: &empty})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetProperty_CachedUntilChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := constants.CacheKeyProperty + testPropertyID

	d, err := f.svc.Properties.Get(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, "Hotel", d.TypeText)
	require.Len(t, d.RoomTypes, 1)
	assert.Len(t, d.RoomTypes[0].Rooms, 2)
	assert.True(t, f.cache.has(key))

	name := "Renamed"
	_, err = f.svc.Properties.Update(ctx, owner, testPropertyID, UpdatePropertyInput{Name: &name})
	require.NoError(t, err)

	d, err = f.svc.Properties.Get(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", d.Name)

	_, err = f.svc.Properties.Get(ctx, "HOT404")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteProperty_RefusedWithUpcomingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, testRoomA, day(10), day(12))

	err := f.svc.Properties.Delete(ctx, owner, testPropertyID)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Bookings.Cancel(ctx, customer, b.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Properties.Delete(ctx, owner, testPropertyID))

	p, err := f.store.Properties().FindByID(ctx, testPropertyID)
	require.NoError(t, err)
	assert.False(t, p.IsActive())

	list, err := f.svc.Properties.List(ctx, customer, PropertyQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListProperties_ScopedAndCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := ownerWith(uuid.MustParse("55555555-5555-4555-8555-55555555beef"))
	_, err := f.svc.Properties.Create(ctx, other, CreatePropertyInput{
		Name: "Villa Sunset", Type: constants.PropertyTypeVilla, Address: "Jl. Pantai", Province: "Lombok",
	})
	require.NoError(t, err)

	all, err := f.svc.Properties.List(ctx, customer, PropertyQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.Properties.List(ctx, owner, PropertyQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, testPropertyID, mine[0].ID)

	villa := constants.PropertyTypeVilla
	villas, err := f.svc.Properties.List(ctx, customer, PropertyQuery{Type: &villa})
	require.NoError(t, err)
	require.Len(t, villas, 1)
	assert.Equal(t, "Villa Sunset", villas[0].Name)

	key := listCacheKey(customer, PropertyQuery{})
	assert.True(t, f.cache.has(key))
	_, err = f.svc.RoomTypes.Create(ctx, owner, testPropertyID, suite(2, 1))
	require.NoError(t, err)
	assert.False(t, f.cache.has(key), "writes drop cached listings")
}

func TestUploadImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	files := func() []io.Reader { return []io.Reader{strings.NewReader("a"), strings.NewReader("b")} }

	_, err := f.svc.Properties.UploadImages(ctx, owner, testPropertyID, files())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpload, apperrors.GetAppError(err).Code)

	up := &fakeUploader{}
	svc := NewPropertyService(f.store, f.cache, up, nil, f.clock.Now)

	_, err = svc.UploadImages(ctx, stranger, testPropertyID, files())
	assert.True(t, apperrors.IsAccessDenied(err))

	urls, err := svc.UploadImages(ctx, owner, testPropertyID, files())
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	p, err := f.store.Properties().FindByID(ctx, testPropertyID)
	require.NoError(t, err)
	assert.Equal(t, urls, []string(p.Images))

	up.fail = true
	_, err = svc.UploadImages(ctx, owner, testPropertyID, files())
	assert.Equal(t, apperrors.ErrCodeUpload, apperrors.GetAppError(err).Code)
}

func TestScoreProperties(t *testing.T) {
	props := []models.Property{
		{ID: "HOT1", Name: "Hotel Melati", Type: constants.PropertyTypeHotel, Province: "Jakarta"},
		{ID: "VIL1", Name: "Sunset Villa", Type: constants.PropertyTypeVilla, Province: "Bali"},
		{ID: "HOT2", Name: "Khách sạn Hoa", Type: constants.PropertyTypeHotel, Province: "Đà Lạt"},
	}

	all := ScoreProperties("", props)
	assert.Len(t, all, 3)

	hits := ScoreProperties("villa bali", props)
	require.NotEmpty(t, hits)
	assert.Equal(t, "VIL1", hits[0].ID)
	assert.Equal(t, 33, hits[0].Score)

	hits = ScoreProperties("khach san da lat", props)
	require.NotEmpty(t, hits)
	assert.Equal(t, "HOT2", hits[0].ID)

	hits = ScoreProperties("melati", props)
	require.NotEmpty(t, hits)
	assert.Equal(t, "HOT1", hits[0].ID)
	assert.Equal(t, 25, hits[0].Score)
}
