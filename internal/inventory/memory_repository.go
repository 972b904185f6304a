package inventory

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	cars  map[string]Car
	order []string
}

// NewMemoryRepository builds an in-memory inventory for tests and local development.
func NewMemoryRepository(cars ...Car) Repository {
	r := &memoryRepository{cars: make(map[string]Car)}
	for _, car := range cars {
		_ = r.Create(context.Background(), car)
	}
	return r
}

func (r *memoryRepository) Create(_ context.Context, car Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	car.Features = nonNil(car.Features)
	car.Images = nonNil(car.Images)
	if _, exists := r.cars[car.ID]; !exists {
		r.order = append(r.order, car.ID)
	}
	r.cars[car.ID] = car
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	car, ok := r.cars[id]
	if !ok {
		return Car{}, ErrCarNotFound
	}
	return car, nil
}

func (r *memoryRepository) List(_ context.Context, q ListQuery) (Page, error) {
	q = q.normalized()
	all := r.snapshot()
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	matched := make([]Car, 0, len(all))
	for _, car := range all {
		if q.Matches(car) {
			matched = append(matched, car)
		}
	}

	page := Page{Cars: []Car{}, Total: len(matched), Limit: q.Limit, Offset: q.Offset}
	if q.Offset < len(matched) {
		end := q.Offset + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Cars = matched[q.Offset:end]
	}
	return page, nil
}

func (r *memoryRepository) Features(context.Context) ([]string, error) {
	return collectFeatures(r.snapshot()), nil
}

func (r *memoryRepository) Filters(context.Context) (Filters, error) {
	return computeFilters(r.snapshot()), nil
}

func (r *memoryRepository) Statistics(context.Context) (Statistics, error) {
	return computeStatistics(r.snapshot()), nil
}

func (r *memoryRepository) snapshot() []Car {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Car, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cars[id])
	}
	return out
}

func collectFeatures(cars []Car) []string {
	seen := map[string]struct{}{}
	for _, car := range cars {
		for _, f := range car.Features {
			seen[f] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func computeFilters(cars []Car) Filters {
	makes, models, bodies, fuels, transmissions, conditions :=
		map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{},
		map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}

	var f Filters
	for i, car := range cars {
		makes[car.Make] = struct{}{}
		models[car.Model] = struct{}{}
		bodies[car.BodyType] = struct{}{}
		fuels[car.FuelType] = struct{}{}
		transmissions[car.Transmission] = struct{}{}
		conditions[string(car.Condition)] = struct{}{}

		if i == 0 || car.Year < f.MinYear {
			f.MinYear = car.Year
		}
		if car.Year > f.MaxYear {
			f.MaxYear = car.Year
		}
		if i == 0 || car.Price < f.MinPrice {
			f.MinPrice = car.Price
		}
		if car.Price > f.MaxPrice {
			f.MaxPrice = car.Price
		}
	}
	f.Makes = sortedKeys(makes)
	f.Models = sortedKeys(models)
	f.BodyTypes = sortedKeys(bodies)
	f.FuelTypes = sortedKeys(fuels)
	f.Transmissions = sortedKeys(transmissions)
	f.Conditions = sortedKeys(conditions)
	return f
}

func computeStatistics(cars []Car) Statistics {
	stats := Statistics{Total: len(cars), ByMake: map[string]int{}, ByBodyType: map[string]int{}}
	unsold := 0
	for _, car := range cars {
		switch car.Status {
		case StatusAvailable:
			stats.Available++
		case StatusReserved:
			stats.Reserved++
		case StatusSold:
			stats.Sold++
		}
		if car.Status != StatusSold {
			unsold++
			stats.InventoryValue += car.Price
		}
		stats.ByMake[car.Make]++
		stats.ByBodyType[car.BodyType]++
	}
	if unsold > 0 {
		stats.AveragePrice = stats.InventoryValue / int64(unsold)
	}
	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
