package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

func (r *Repository) GetAllRestaurants() ([]*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, hours, created_at, version
		FROM restaurants
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make([]*domain.Restaurant, 0)
	for rows.Next() {
		restaurant := &domain.Restaurant{}

		dst := []any{
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.Hours,
			&restaurant.CreatedAt,
			&restaurant.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		restaurants = append(restaurants, restaurant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return restaurants, nil
}

// LoadRestaurants 让 Repository 可以作为 catalog 的数据源
func (r *Repository) LoadRestaurants() ([]*domain.Restaurant, error) {
	return r.GetAllRestaurants()
}

func (r *Repository) GetRestaurantByID(id int64) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, hours, created_at, version
		FROM restaurants
		WHERE id = $1
	`

	restaurant := &domain.Restaurant{ID: id}
	dst := []any{
		&restaurant.Name,
		&restaurant.Hours,
		&restaurant.CreatedAt,
		&restaurant.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return restaurant, nil
}

func (r *Repository) CreateRestaurant(restaurant *domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO restaurants (name, hours)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	dst := []any{&restaurant.ID, &restaurant.CreatedAt, &restaurant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, restaurant.Name, restaurant.Hours).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// ReplaceAllRestaurants 在一个事务中清空并重新写入所有餐厅，用于导入整份数据
func (r *Repository) ReplaceAllRestaurants(restaurants []*domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM restaurants`); err != nil {
		return err
	}

	query := `
		INSERT INTO restaurants (name, hours)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	for _, restaurant := range restaurants {
		dst := []any{&restaurant.ID, &restaurant.CreatedAt, &restaurant.Version}
		if err := tx.QueryRowContext(ctx, query, restaurant.Name, restaurant.Hours).Scan(dst...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRestaurant(restaurant *domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE restaurants
		SET
			name = $1,
			hours = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	params := []any{restaurant.Name, restaurant.Hours, restaurant.ID, restaurant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&restaurant.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRestaurant(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM restaurants WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
