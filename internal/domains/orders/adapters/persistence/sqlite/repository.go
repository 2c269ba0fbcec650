package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

const orderColumns = `id, customer_name, email, phone, address, items, total, notes, status, created_at`

// Repository persists orders in an embedded SQLite database through sqlx.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wires a SQLite-backed repository. Caller owns the DB lifecycle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type orderRow struct {
	ID           string  `db:"id"`
	CustomerName string  `db:"customer_name"`
	Email        string  `db:"email"`
	Phone        string  `db:"phone"`
	Address      string  `db:"address"`
	Items        string  `db:"items"`
	Total        float64 `db:"total"`
	Notes        string  `db:"notes"`
	Status       string  `db:"status"`
	CreatedAt    string  `db:"created_at"`
}

func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	row, err := toRow(clone)
	if err != nil {
		return nil, err
	}
	result, err := r.db.NamedExecContext(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES (:id, :customer_name, :email, :phone, :address, :items, :total, :notes, :status, :created_at)
		ON CONFLICT(id) DO NOTHING`, row)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ports.ErrDuplicateID
	}
	return clone.Clone(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return r.single(row, err)
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.GetContext(ctx, &row,
		`UPDATE orders SET status = ? WHERE id = ? RETURNING `+orderColumns,
		string(domain.SanitizeStatus(status)), id)
	return r.single(row, err)
}

func (r *Repository) Delete(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.GetContext(ctx, &row, `DELETE FROM orders WHERE id = ? RETURNING `+orderColumns, id)
	return r.single(row, err)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.PingContext(ctx)
}

func (r *Repository) single(row orderRow, err error) (*domain.Order, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("sqlite order repository not configured")
	}
	return nil
}

func toRow(order *domain.Order) (orderRow, error) {
	address, err := json.Marshal(order.Address)
	if err != nil {
		return orderRow{}, err
	}
	items := order.Items
	if items == nil {
		items = []domain.Item{}
	}
	encodedItems, err := json.Marshal(items)
	if err != nil {
		return orderRow{}, err
	}
	row := orderRow{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Address:      string(address),
		Items:        string(encodedItems),
		Total:        order.Total,
		Notes:        order.Notes,
		Status:       string(order.Status),
	}
	if !order.CreatedAt.IsZero() {
		row.CreatedAt = order.CreatedAt.UTC().Format(timeLayout)
	}
	return row, nil
}

func (r orderRow) toDomain() (*domain.Order, error) {
	order := &domain.Order{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Total:        r.Total,
		Notes:        r.Notes,
		Status:       domain.SanitizeStatus(domain.Status(r.Status)),
	}
	if err := json.Unmarshal([]byte(r.Address), &order.Address); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.Items), &order.Items); err != nil {
		return nil, err
	}
	if r.CreatedAt != "" {
		ts, err := time.Parse(timeLayout, r.CreatedAt)
		if err != nil {
			return nil, err
		}
		order.CreatedAt = ts
	}
	return order, nil
}
