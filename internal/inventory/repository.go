package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads and stocks the car inventory.
type Repository interface {
	Create(ctx context.Context, car Car) error
	Get(ctx context.Context, id string) (Car, error)
	List(ctx context.Context, q ListQuery) (Page, error)
	Features(ctx context.Context) ([]string, error)
	Filters(ctx context.Context) (Filters, error)
	Statistics(ctx context.Context) (Statistics, error)
}

const carColumns = `id, stock_number, vin, make, model, year, trim, body_type, fuel_type, transmission,
        mileage, price, exterior_color, condition, status, features, images, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed inventory repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a car.
func (r *PostgresRepository) Create(ctx context.Context, car Car) error {
	carID, err := uuid.Parse(car.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO cars (`+carColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		carID, car.StockNumber, car.VIN, car.Make, car.Model, car.Year, car.Trim, car.BodyType, car.FuelType,
		car.Transmission, car.Mileage, car.Price, car.ExteriorColor, string(car.Condition), string(car.Status),
		nonNil(car.Features), nonNil(car.Images), car.CreatedAt.UTC(), car.UpdatedAt.UTC())
	return err
}

// Get fetches a car by id. Malformed ids are reported as not found.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Car, error) {
	carID, err := uuid.Parse(id)
	if err != nil {
		return Car{}, ErrCarNotFound
	}
	car, err := scanCar(r.db.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, carID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrCarNotFound
	}
	if err != nil {
		return Car{}, fmt.Errorf("query car: %w", err)
	}
	return car, nil
}

// List returns one page of cars matching q, newest first.
func (r *PostgresRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	q = q.normalized()
	where, args := buildWhere(q)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars`+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count cars: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`SELECT %s FROM cars%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		carColumns, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]Car, 0, q.Limit)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return Page{}, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list cars: %w", err)
	}
	return Page{Cars: cars, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Features returns every distinct feature across the inventory, sorted.
func (r *PostgresRepository) Features(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT f FROM cars, unnest(features) AS f ORDER BY f`)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	features, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	if features == nil {
		features = []string{}
	}
	return features, nil
}

// Filters returns the facet values present in the inventory.
func (r *PostgresRepository) Filters(ctx context.Context) (Filters, error) {
	var f Filters
	err := r.db.QueryRow(ctx, `SELECT
            COALESCE(array_agg(DISTINCT make ORDER BY make), '{}'),
            COALESCE(array_agg(DISTINCT model ORDER BY model), '{}'),
            COALESCE(array_agg(DISTINCT body_type ORDER BY body_type), '{}'),
            COALESCE(array_agg(DISTINCT fuel_type ORDER BY fuel_type), '{}'),
            COALESCE(array_agg(DISTINCT transmission ORDER BY transmission), '{}'),
            COALESCE(array_agg(DISTINCT condition ORDER BY condition), '{}'),
            COALESCE(MIN(year), 0), COALESCE(MAX(year), 0),
            COALESCE(MIN(price), 0), COALESCE(MAX(price), 0)
        FROM cars`).Scan(&f.Makes, &f.Models, &f.BodyTypes, &f.FuelTypes, &f.Transmissions, &f.Conditions,
		&f.MinYear, &f.MaxYear, &f.MinPrice, &f.MaxPrice)
	if err != nil {
		return Filters{}, fmt.Errorf("query filters: %w", err)
	}
	return f, nil
}

// Statistics aggregates inventory counts and values. Inventory value and
// average price only consider unsold cars.
func (r *PostgresRepository) Statistics(ctx context.Context) (Statistics, error) {
	stats := Statistics{ByMake: map[string]int{}, ByBodyType: map[string]int{}}
	err := r.db.QueryRow(ctx, `SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'available'),
            COUNT(*) FILTER (WHERE status = 'reserved'),
            COUNT(*) FILTER (WHERE status = 'sold'),
            COALESCE(AVG(price) FILTER (WHERE status <> 'sold'), 0)::bigint,
            COALESCE(SUM(price) FILTER (WHERE status <> 'sold'), 0)::bigint
        FROM cars`).Scan(&stats.Total, &stats.Available, &stats.Reserved, &stats.Sold,
		&stats.AveragePrice, &stats.InventoryValue)
	if err != nil {
		return Statistics{}, fmt.Errorf("query statistics: %w", err)
	}

	if err := r.countBy(ctx, "make", stats.ByMake); err != nil {
		return Statistics{}, err
	}
	if err := r.countBy(ctx, "body_type", stats.ByBodyType); err != nil {
		return Statistics{}, err
	}
	return stats, nil
}

// countBy groups cars by a fixed, trusted column name.
func (r *PostgresRepository) countBy(ctx context.Context, column string, into map[string]int) error {
	rows, err := r.db.Query(ctx, `SELECT `+column+`, COUNT(*) FROM cars GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("count by %s: %w", column, err)
		}
		into[key] = n
	}
	return rows.Err()
}

func buildWhere(q ListQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(format string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if q.Make != "" {
		add("lower(make) = lower($%d)", q.Make)
	}
	if q.Model != "" {
		add("lower(model) = lower($%d)", q.Model)
	}
	if q.BodyType != "" {
		add("lower(body_type) = lower($%d)", q.BodyType)
	}
	if q.FuelType != "" {
		add("lower(fuel_type) = lower($%d)", q.FuelType)
	}
	if q.Condition != "" {
		add("condition = $%d", string(q.Condition))
	}
	if q.Status != "" {
		add("status = $%d", string(q.Status))
	}
	if q.MinPrice > 0 {
		add("price >= $%d", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		add("price <= $%d", q.MaxPrice)
	}
	if q.MinYear > 0 {
		add("year >= $%d", q.MinYear)
	}
	if q.MaxYear > 0 {
		add("year <= $%d", q.MaxYear)
	}
	if q.Search != "" {
		add("(make || ' ' || model || ' ' || trim || ' ' || stock_number || ' ' || vin) ILIKE '%%' || $%d || '%%'", q.Search)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanCar(row pgx.Row) (Car, error) {
	var (
		id        uuid.UUID
		condition string
		status    string
		createdAt time.Time
		updatedAt time.Time
		car       Car
	)
	if err := row.Scan(&id, &car.StockNumber, &car.VIN, &car.Make, &car.Model, &car.Year, &car.Trim,
		&car.BodyType, &car.FuelType, &car.Transmission, &car.Mileage, &car.Price, &car.ExteriorColor,
		&condition, &status, &car.Features, &car.Images, &createdAt, &updatedAt); err != nil {
		return Car{}, err
	}
	car.ID = id.String()
	car.Condition = Condition(condition)
	car.Status = Status(status)
	car.Features = nonNil(car.Features)
	car.Images = nonNil(car.Images)
	car.CreatedAt = createdAt.UTC()
	car.UpdatedAt = updatedAt.UTC()
	return car, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
