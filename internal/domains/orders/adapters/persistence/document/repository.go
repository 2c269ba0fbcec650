package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Resetter   = (*Repository)(nil)
)

// Repository keeps the whole order collection in one JSON document. Every
// operation is a load, mutate, save cycle under a single lock, so concurrent
// writers in this process cannot lose each other's updates. The lock is not
// shared with other processes; see api.Config.DurableWorkflows.
type Repository struct {
	mu   sync.Mutex
	path string
}

// NewRepository stores the collection at path. The file is created on the first write.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the backing document location.
func (r *Repository) Path() string { return r.path }

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.orders(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	if idx := doc.indexOf(id); idx >= 0 {
		return doc[idx].order, nil
	}
	return nil, ports.ErrNotFound
}

// Insert prepends the order so the document reads newest first.
func (r *Repository) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	if doc.indexOf(clone.ID) >= 0 {
		return nil, ports.ErrDuplicateID
	}
	doc = append(document{{order: clone}}, doc...)
	if err := r.save(doc); err != nil {
		return nil, err
	}
	return clone.Clone(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := doc.indexOf(id)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	doc[idx].order.UpdateStatus(status)
	if err := r.save(doc); err != nil {
		return nil, err
	}
	return doc[idx].order.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := doc.indexOf(id)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	removed := doc[idx].order
	doc = append(doc[:idx], doc[idx+1:]...)
	if err := r.save(doc); err != nil {
		return nil, err
	}
	return removed, nil
}

// ResetCollection replaces the document with an empty collection.
func (r *Repository) ResetCollection(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(nil)
}

// Ping reports whether the document can currently be read.
func (r *Repository) Ping(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.load()
	return err
}

// load reads the collection. Only a document that is not valid JSON or not
// an array is unreadable; odd entries inside a well-formed array are decoded
// leniently or carried through untouched.
func (r *Repository) load() (document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCollectionUnreadable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return document{}, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrCollectionUnreadable, r.path, err)
	}
	doc := make(document, 0, len(raws))
	for _, raw := range raws {
		doc = append(doc, decodeEntry(raw))
	}
	return doc, nil
}

func (r *Repository) save(doc document) error {
	entries := make([]any, 0, len(doc))
	for _, e := range doc {
		if e.order == nil {
			entries = append(entries, e.raw)
			continue
		}
		entries = append(entries, toRecord(e.order))
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// entry is one element of the persisted array. Elements that are not JSON
// objects have no order and are written back as they were read.
type entry struct {
	order *domain.Order
	raw   json.RawMessage
}

type document []entry

func (d document) orders() []*domain.Order {
	orders := make([]*domain.Order, 0, len(d))
	for _, e := range d {
		if e.order != nil {
			orders = append(orders, e.order)
		}
	}
	return orders
}

func (d document) indexOf(id string) int {
	for i, e := range d {
		if e.order != nil && e.order.ID == id {
			return i
		}
	}
	return -1
}

func decodeEntry(raw json.RawMessage) entry {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return entry{raw: raw}
	}
	rec := record{
		ID:           textField(fields, "id"),
		CustomerName: textField(fields, "customerName"),
		Email:        textField(fields, "email"),
		Phone:        textField(fields, "phone"),
		Total:        numberField(fields, "total"),
		Notes:        textField(fields, "notes"),
		Status:       textField(fields, "status"),
		CreatedAt:    textField(fields, "createdAt"),
	}
	if value, ok := fields["address"]; ok {
		_ = json.Unmarshal(value, &rec.Address)
	}
	if value, ok := fields["items"]; ok {
		var items []domain.Item
		if err := json.Unmarshal(value, &items); err == nil {
			rec.Items = items
		}
	}
	return entry{order: rec.toDomain()}
}

// textField reads a string, or the literal text of a number, and "" otherwise.
func textField(fields map[string]json.RawMessage, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		return n.String()
	}
	return ""
}

// numberField reads a number or a numeric string, and 0 otherwise.
func numberField(fields map[string]json.RawMessage, key string) float64 {
	value, ok := fields[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return 0
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// record is the persisted document shape. createdAt is kept as text so that
// entries written by older tooling with a missing or malformed timestamp
// still load.
type record struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customerName"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Address      domain.Address `json:"address"`
	Items        []domain.Item  `json:"items"`
	Total        float64        `json:"total"`
	Notes        string         `json:"notes"`
	Status       string         `json:"status"`
	CreatedAt    string         `json:"createdAt,omitempty"`
}

func toRecord(order *domain.Order) record {
	rec := record{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Address:      order.Address,
		Items:        order.Items,
		Total:        order.Total,
		Notes:        order.Notes,
		Status:       string(order.Status),
	}
	if rec.Items == nil {
		rec.Items = []domain.Item{}
	}
	if !order.CreatedAt.IsZero() {
		rec.CreatedAt = order.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func (r record) toDomain() *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		Items:        r.Items,
		Total:        r.Total,
		Notes:        r.Notes,
		Status:       domain.SanitizeStatus(domain.Status(r.Status)),
	}
	if ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		order.CreatedAt = ts
	}
	return order
}
