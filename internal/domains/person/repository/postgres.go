package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"person-registry/internal/domains/person"
	"person-registry/pkg/cache"
)

// postgresRepository implements person.Repository on a pgx pool with a
// cache-aside layer for point lookups.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

const cacheTTL = 15 * time.Minute

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) person.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("person:%d", id)
}

func (r *postgresRepository) Insert(ctx context.Context, p *person.Person) (int64, error) {
	query := `
		INSERT INTO person (name, age, email, address, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Name,
		p.Age,
		p.Email,
		p.Address,
		p.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	query := `SELECT COUNT(*) FROM person WHERE email = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by email: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountByEmailExcludingID(ctx context.Context, email string, id int64) (int, error) {
	query := `SELECT COUNT(*) FROM person WHERE email = $1 AND id != $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, email, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by email excluding id: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *person.Person) (int64, error) {
	query := `
		UPDATE person
		SET name = $2, age = $3, email = $4, address = $5, phone = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Age,
		p.Email,
		p.Address,
		p.Phone,
	)
	if err != nil {
		return 0, fmt.Errorf("update person: %w", err)
	}

	if result.RowsAffected() > 0 {
		// Invalidate so the next point lookup reads fresh data.
		_ = r.cache.Delete(ctx, cacheKey(p.ID))
	}

	return result.RowsAffected(), nil
}

func (r *postgresRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	query := `DELETE FROM person WHERE id = ANY($1)`

	result, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete persons: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	_ = r.cache.Delete(ctx, keys...)

	return result.RowsAffected(), nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*person.Person, error) {
	key := cacheKey(id)

	var cached person.Person
	found, err := r.cache.Get(ctx, key, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT id, name, age, email, address, phone
		FROM person
		WHERE id = $1
	`

	var p person.Person
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Email,
		&p.Address,
		&p.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}

	// Cache failures must not fail the read.
	_ = r.cache.Set(ctx, key, &p, cacheTTL)

	return &p, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]person.Person, error) {
	query := `
		SELECT id, name, age, email, address, phone
		FROM person
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find persons by ids: %w", err)
	}
	defer rows.Close()

	return scanPersons(rows, len(ids))
}

func (r *postgresRepository) FindAll(ctx context.Context) ([]person.Person, error) {
	query := `
		SELECT id, name, age, email, address, phone
		FROM person
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find all persons: %w", err)
	}
	defer rows.Close()

	return scanPersons(rows, 0)
}

func scanPersons(rows pgx.Rows, capacity int) ([]person.Person, error) {
	persons := make([]person.Person, 0, capacity)

	for rows.Next() {
		var p person.Person
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Age,
			&p.Email,
			&p.Address,
			&p.Phone,
		)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return persons, nil
}
