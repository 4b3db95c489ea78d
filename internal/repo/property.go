package repo

import (
	"context"
	"database/sql"

	"github.com/eci-arep/secureweb/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type PropertyRepo struct {
	DB *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{DB: db}
}

// ========================
// CREATE PROPERTY
// ========================

func (r *PropertyRepo) Create(ctx context.Context, address string, price, size float64, description string) (models.Property, error) {
	var p models.Property
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO properties (address, price, size, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, address, price, size, description`,
		address, price, size, description,
	).Scan(
		&p.ID,
		&p.Address,
		&p.Price,
		&p.Size,
		&p.Description,
	)
	return p, err
}

// ========================
// GET PROPERTY BY ID
// ========================

func (r *PropertyRepo) GetByID(ctx context.Context, id int) (models.Property, error) {
	var p models.Property
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, address, price, size, description
		 FROM properties
		 WHERE id = $1`,
		id,
	).Scan(
		&p.ID,
		&p.Address,
		&p.Price,
		&p.Size,
		&p.Description,
	)
	return p, err
}

// ========================
// UPDATE PROPERTY BY ID
// ========================

// UpdateByID overwrites the mutable fields in a single statement. A missing row
// surfaces as sql.ErrNoRows from the RETURNING scan.
func (r *PropertyRepo) UpdateByID(ctx context.Context, id int, address string, price, size float64, description string) (models.Property, error) {
	var p models.Property
	err := r.DB.QueryRowContext(ctx,
		`UPDATE properties
		 SET address = $1, price = $2, size = $3, description = $4
		 WHERE id = $5
		 RETURNING id, address, price, size, description`,
		address, price, size, description, id,
	).Scan(
		&p.ID,
		&p.Address,
		&p.Price,
		&p.Size,
		&p.Description,
	)
	return p, err
}

// ========================
// DELETE PROPERTY BY ID
// ========================

// DeleteByID does not report whether a row was removed; deleting an absent id succeeds.
func (r *PropertyRepo) DeleteByID(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM properties WHERE id = $1", id)
	return err
}

// ========================
// LIST ALL PROPERTIES
// ========================

func (r *PropertyRepo) List(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, address, price, size, description FROM properties ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.Price, &p.Size, &p.Description); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// ========================
// LIST PROPERTIES WITH PAGINATION
// ========================

func (r *PropertyRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, address, price, size, description FROM properties ORDER BY id LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Address, &p.Price, &p.Size, &p.Description); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}
