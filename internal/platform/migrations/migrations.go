package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the relational schema for the orders and admin contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&idempotencyRecord{},
		&adminSessionRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:64"`
	CustomerName string    `gorm:"column:customer_name;size:255"`
	Email        string    `gorm:"column:email;size:255"`
	Phone        string    `gorm:"column:phone;size:32"`
	Address      string    `gorm:"column:address;type:text"`
	Items        string    `gorm:"column:items;type:text"`
	Total        float64   `gorm:"column:total"`
	Notes        string    `gorm:"column:notes;type:text"`
	Status       string    `gorm:"column:status;type:varchar(32);index"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Idempotency schema mirrors the orders idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Admin session schema mirrors the admin token store.
type adminSessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:128"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (adminSessionRecord) TableName() string { return "admin_sessions" }
