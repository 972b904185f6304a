package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryRepository(DemoCars(time.Now())...), time.Second)
}

func TestListFiltersAndPages(t *testing.T) {
	svc := newDemoService(t)
	ctx := context.Background()

	page, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Cars, 4)
	assert.Equal(t, "A1004", page.Cars[0].StockNumber, "newest first")

	page, err = svc.List(ctx, ListQuery{BodyType: "SEDAN"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.List(ctx, ListQuery{MinPrice: 2000000, MaxPrice: 3000000})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.List(ctx, ListQuery{Condition: ConditionUsed, Status: StatusAvailable})
	require.NoError(t, err)
	require.Len(t, page.Cars, 1)
	assert.Equal(t, "Civic", page.Cars[0].Model)

	page, err = svc.List(ctx, ListQuery{Search: "model 3"})
	require.NoError(t, err)
	require.Len(t, page.Cars, 1)
	assert.Equal(t, "Tesla", page.Cars[0].Make)

	page, err = svc.List(ctx, ListQuery{MinYear: 2018, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Cars, 1)
	assert.Equal(t, "A1002", page.Cars[0].StockNumber)

	page, err = svc.List(ctx, ListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Cars)
	assert.NotNil(t, page.Cars)
}

func TestGetUnknownCar(t *testing.T) {
	svc := newDemoService(t)

	_, err := svc.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrCarNotFound)

	car, err := svc.Get(context.Background(), "3f1c6a1e-5d55-4d0b-9b8e-0c6f1a0e6a03")
	require.NoError(t, err)
	assert.Equal(t, "F-150", car.Model)
}

func TestFeaturesFiltersStatistics(t *testing.T) {
	svc := newDemoService(t)
	ctx := context.Background()

	features, err := svc.Features(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple CarPlay", "Autopilot", "Backup Camera", "Heated Seats", "Lane Assist", "Panoramic Roof", "Tow Package"}, features)

	filters, err := svc.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ford", "Honda", "Tesla", "Toyota"}, filters.Makes)
	assert.Equal(t, []string{"certified", "new", "used"}, filters.Conditions)
	assert.Equal(t, 2017, filters.MinYear)
	assert.Equal(t, 2024, filters.MaxYear)
	assert.Equal(t, int64(1450000), filters.MinPrice)
	assert.Equal(t, int64(4299000), filters.MaxPrice)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Available)
	assert.Equal(t, 1, stats.Reserved)
	assert.Equal(t, 1, stats.Sold)
	assert.Equal(t, int64(2149900+4299000+2899500), stats.InventoryValue)
	assert.Equal(t, int64(2149900+4299000+2899500)/3, stats.AveragePrice)
	assert.Equal(t, 2, stats.ByBodyType["sedan"])
	assert.Equal(t, 1, stats.ByMake["Toyota"])
}

func TestEmptyInventory(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 0)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.AveragePrice)

	features, err := svc.Features(context.Background())
	require.NoError(t, err)
	assert.Empty(t, features)
	assert.NotNil(t, features)
}
