package inventory

import (
	"errors"
	"strings"
	"time"
)

// ErrCarNotFound is returned when a car id does not resolve.
var ErrCarNotFound = errors.New("car not found")

// Condition of a vehicle on the lot.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionUsed      Condition = "used"
	ConditionCertified Condition = "certified"
)

// Status of a vehicle in the sales pipeline.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// Car is a single vehicle in the dealership inventory. Prices are in cents.
type Car struct {
	ID            string    `json:"id"`
	StockNumber   string    `json:"stock_number"`
	VIN           string    `json:"vin"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Trim          string    `json:"trim,omitempty"`
	BodyType      string    `json:"body_type"`
	FuelType      string    `json:"fuel_type"`
	Transmission  string    `json:"transmission"`
	Mileage       int       `json:"mileage"`
	Price         int64     `json:"price"`
	ExteriorColor string    `json:"exterior_color,omitempty"`
	Condition     Condition `json:"condition"`
	Status        Status    `json:"status"`
	Features      []string  `json:"features"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filters lists the facet values a storefront can filter the inventory by.
type Filters struct {
	Makes         []string `json:"makes"`
	Models        []string `json:"models"`
	BodyTypes     []string `json:"body_types"`
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
	Conditions    []string `json:"conditions"`
	MinYear       int      `json:"min_year"`
	MaxYear       int      `json:"max_year"`
	MinPrice      int64    `json:"min_price"`
	MaxPrice      int64    `json:"max_price"`
}

// Statistics summarizes the inventory for the admin console.
type Statistics struct {
	Total          int            `json:"total"`
	Available      int            `json:"available"`
	Reserved       int            `json:"reserved"`
	Sold           int            `json:"sold"`
	AveragePrice   int64          `json:"average_price"`
	InventoryValue int64          `json:"inventory_value"`
	ByMake         map[string]int `json:"by_make"`
	ByBodyType     map[string]int `json:"by_body_type"`
}

// ListQuery narrows a car listing. Zero values mean "no constraint".
type ListQuery struct {
	Make      string
	Model     string
	BodyType  string
	FuelType  string
	Condition Condition
	Status    Status
	MinPrice  int64
	MaxPrice  int64
	MinYear   int
	MaxYear   int
	Search    string
	Limit     int
	Offset    int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (q ListQuery) normalized() ListQuery {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Matches reports whether car satisfies every constraint in q, ignoring paging.
func (q ListQuery) Matches(car Car) bool {
	if q.Make != "" && !strings.EqualFold(car.Make, q.Make) {
		return false
	}
	if q.Model != "" && !strings.EqualFold(car.Model, q.Model) {
		return false
	}
	if q.BodyType != "" && !strings.EqualFold(car.BodyType, q.BodyType) {
		return false
	}
	if q.FuelType != "" && !strings.EqualFold(car.FuelType, q.FuelType) {
		return false
	}
	if q.Condition != "" && car.Condition != q.Condition {
		return false
	}
	if q.Status != "" && car.Status != q.Status {
		return false
	}
	if q.MinPrice > 0 && car.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice > 0 && car.Price > q.MaxPrice {
		return false
	}
	if q.MinYear > 0 && car.Year < q.MinYear {
		return false
	}
	if q.MaxYear > 0 && car.Year > q.MaxYear {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hay := strings.ToLower(strings.Join([]string{car.Make, car.Model, car.Trim, car.StockNumber, car.VIN}, " "))
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

// Page is one slice of a filtered listing together with the unpaged total.
type Page struct {
	Cars   []Car `json:"cars"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
