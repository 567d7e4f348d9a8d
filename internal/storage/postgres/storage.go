package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage layer uses. pgxmock's pool
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct{ storage *Storage }
type clientRepository struct{ storage *Storage }
type orderRepository struct{ storage *Storage }
type productRepository struct{ storage *Storage }
type invoiceRepository struct{ storage *Storage }
type auditRepository struct{ storage *Storage }
type notificationRepository struct{ storage *Storage }
type systemConfigRepository struct{ storage *Storage }
type mediaRepository struct{ storage *Storage }

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository { return &userRepository{storage: s} }
func (s *Storage) Clients() repository.ClientRepository {
	return &clientRepository{storage: s}
}
func (s *Storage) Orders() repository.OrderRepository     { return &orderRepository{storage: s} }
func (s *Storage) Products() repository.ProductRepository { return &productRepository{storage: s} }
func (s *Storage) Invoices() repository.InvoiceRepository { return &invoiceRepository{storage: s} }
func (s *Storage) Audit() repository.AuditRepository      { return &auditRepository{storage: s} }
func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}
func (s *Storage) SystemConfig() repository.SystemConfigRepository {
	return &systemConfigRepository{storage: s}
}
func (s *Storage) Media() repository.MediaRepository { return &mediaRepository{storage: s} }

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
            id SERIAL PRIMARY KEY,
            company TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            invoice_prefix TEXT NOT NULL DEFAULT '',
            margin_override DOUBLE PRECISION,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            client_id BIGINT REFERENCES clients(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT NOT NULL DEFAULT '',
            client_id BIGINT NOT NULL REFERENCES clients(id),
            manufacturer_id BIGINT REFERENCES users(id),
            status TEXT NOT NULL DEFAULT 'active',
            paid BOOLEAN NOT NULL DEFAULT FALSE,
            sample_fee DOUBLE PRECISION,
            client_sample_fee DOUBLE PRECISION,
            sample_eta TIMESTAMPTZ,
            sample_status TEXT NOT NULL DEFAULT 'no_sample',
            sample_routed_to TEXT NOT NULL DEFAULT 'admin',
            sample_routed_at TIMESTAMPTZ,
            sample_routed_by BIGINT,
            sample_notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_products (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            name TEXT NOT NULL,
            sku TEXT NOT NULL DEFAULT '',
            manufacturer_price DOUBLE PRECISION,
            client_price DOUBLE PRECISION,
            status TEXT NOT NULL DEFAULT 'pending_admin',
            routed_to TEXT NOT NULL DEFAULT 'admin',
            routed_at TIMESTAMPTZ,
            routed_by BIGINT,
            invoiced BOOLEAN NOT NULL DEFAULT FALSE,
            invoice_id BIGINT,
            estimated_ship_date TIMESTAMPTZ,
            shipped_date TIMESTAMPTZ,
            production_days INT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES order_products(id),
            quantity INT NOT NULL,
            variant TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS order_media (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            url TEXT NOT NULL,
            kind TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            client_id BIGINT NOT NULL REFERENCES clients(id),
            order_id BIGINT,
            total DOUBLE PRECISION NOT NULL,
            payment_link TEXT NOT NULL DEFAULT '',
            pdf_url TEXT NOT NULL DEFAULT '',
            sent_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
            id SERIAL PRIMARY KEY,
            invoice_id BIGINT NOT NULL REFERENCES invoices(id),
            product_id BIGINT,
            description TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS invoice_sequences (
            client_id BIGINT PRIMARY KEY REFERENCES clients(id),
            prefix TEXT NOT NULL,
            counter BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS audit_log (
            id SERIAL PRIMARY KEY,
            actor_id BIGINT NOT NULL,
            actor_role TEXT NOT NULL,
            action TEXT NOT NULL,
            target_type TEXT NOT NULL,
            target_id BIGINT NOT NULL,
            old_value TEXT NOT NULL DEFAULT '',
            new_value TEXT NOT NULL DEFAULT '',
            note TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id SERIAL PRIMARY KEY,
            recipient_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            subject TEXT NOT NULL DEFAULT '',
            body TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            sent_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS system_config (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_manufacturer ON orders(manufacturer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_products_order ON order_products(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_target ON audit_log(target_type, target_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_pending ON notifications(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role, clientID *int64) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role, client_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role, clientID).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	u.ClientID = clientID
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, client_id, created_at FROM users WHERE login=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, client_id, created_at FROM users WHERE id=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByClient(ctx context.Context, clientID int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, client_id, created_at
                   FROM users WHERE client_id=$1 ORDER BY id LIMIT 1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, clientID))
}

func (r *userRepository) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.ClientID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	const query = `SELECT id, login, password_hash, role, client_id, created_at FROM users WHERE role=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.ClientID, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ClientRepository implementation ---

func (r *clientRepository) Create(ctx context.Context, company, email, invoicePrefix string, marginOverride *float64) (*model.Client, error) {
	const query = `INSERT INTO clients (company, email, invoice_prefix, margin_override)
                   VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var c model.Client
	err := r.storage.pool.QueryRow(ctx, query, company, email, invoicePrefix, marginOverride).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Company = company
	c.Email = email
	c.InvoicePrefix = invoicePrefix
	c.MarginOverride = marginOverride
	return &c, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	const query = `SELECT id, company, email, invoice_prefix, margin_override, created_at FROM clients WHERE id=$1`
	var c model.Client
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Company, &c.Email, &c.InvoicePrefix, &c.MarginOverride, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, number, client_id, manufacturer_id, status, paid,
       sample_fee, client_sample_fee, sample_eta, sample_status,
       sample_routed_to, sample_routed_at, sample_routed_by, sample_notes,
       created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.ClientID, &o.ManufacturerID, &o.Status, &o.Paid,
		&o.SampleFee, &o.ClientSampleFee, &o.SampleETA, &o.SampleStatus,
		&o.SampleRoutedTo, &o.SampleRoutedAt, &o.SampleRoutedBy, &o.SampleNotes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, clientID int64, manufacturerID *int64, number string, products []repository.NewProduct) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (client_id, manufacturer_id) VALUES ($1, $2)
                             RETURNING id, created_at, updated_at`
		var o model.Order
		if err := tx.QueryRow(ctx, insertOrder, clientID, manufacturerID).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}
		o.ClientID = clientID
		o.ManufacturerID = manufacturerID
		o.Status = model.OrderStatusActive
		o.SampleStatus = model.SampleStatusNone
		o.SampleRoutedTo = model.CustodianAdmin

		o.Number = number
		if o.Number == "" {
			const setNumber = `UPDATE orders SET number = 'ORD-' || LPAD(id::text, 6, '0') WHERE id=$1 RETURNING number`
			if err := tx.QueryRow(ctx, setNumber, o.ID).Scan(&o.Number); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `UPDATE orders SET number=$1 WHERE id=$2`, o.Number, o.ID); err != nil {
				return err
			}
		}

		for _, p := range products {
			const insertProduct = `INSERT INTO order_products (order_id, name, sku, manufacturer_price, client_price)
                                   VALUES ($1, $2, $3, $4, $5) RETURNING id`
			var productID int64
			if err := tx.QueryRow(ctx, insertProduct, o.ID, p.Name, p.SKU, p.ManufacturerPrice, p.ClientPrice).Scan(&productID); err != nil {
				return err
			}
			for _, item := range p.Items {
				const insertItem = `INSERT INTO order_items (product_id, quantity, variant) VALUES ($1, $2, $3)`
				if _, err := tx.Exec(ctx, insertItem, productID, item.Quantity, item.Variant); err != nil {
					return err
				}
			}
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.ClientID, &o.ManufacturerID, &o.Status, &o.Paid,
			&o.SampleFee, &o.ClientSampleFee, &o.SampleETA, &o.SampleStatus,
			&o.SampleRoutedTo, &o.SampleRoutedAt, &o.SampleRoutedBy, &o.SampleNotes,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListForClient(ctx context.Context, clientID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE client_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, clientID)
}

func (r *orderRepository) ListForManufacturer(ctx context.Context, manufacturerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE manufacturer_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, manufacturerID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ApplyBulkRoute commits the whole routing write set atomically: product
// updates, the order-level sample mutation, audit rows and notifications
// either all land or none do.
func (r *orderRepository) ApplyBulkRoute(ctx context.Context, set repository.BulkRouteSet) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, w := range set.Products {
			const updateProduct = `UPDATE order_products
                                   SET status=$1, routed_to=$2, routed_at=NOW(), routed_by=$3,
                                       shipped_date=COALESCE($4, shipped_date), updated_at=NOW()
                                   WHERE id=$5 AND order_id=$6`
			tag, err := tx.Exec(ctx, updateProduct, w.Update.Status, w.Update.RoutedTo, w.RoutedBy, w.Update.ShippedDate, w.ProductID, set.OrderID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return domainErrors.ErrNotFound
			}
		}

		if set.Sample.ForceNoSample {
			const resetSample = `UPDATE orders SET sample_status=$1, updated_at=NOW() WHERE id=$2`
			if _, err := tx.Exec(ctx, resetSample, model.SampleStatusNone, set.OrderID); err != nil {
				return err
			}
		} else {
			if set.Sample.ClientSampleFee != nil {
				const setFee = `UPDATE orders SET client_sample_fee=$1, updated_at=NOW() WHERE id=$2`
				if _, err := tx.Exec(ctx, setFee, set.Sample.ClientSampleFee, set.OrderID); err != nil {
					return err
				}
			}
			if set.Sample.Update != nil {
				if err := routeSampleTx(ctx, tx, set.OrderID, *set.Sample.Update, set.Sample.RoutedBy, set.Sample.AppendNotes); err != nil {
					return err
				}
			}
		}

		for _, entry := range set.Audit {
			if err := appendAuditTx(ctx, tx, entry); err != nil {
				return err
			}
		}
		for _, n := range set.Notifications {
			if err := enqueueNotificationTx(ctx, tx, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func routeSampleTx(ctx context.Context, tx pgx.Tx, orderID int64, update model.SampleRouteUpdate, routedBy int64, appendNotes string) error {
	const query = `UPDATE orders
                   SET sample_routed_to=$1, sample_status=$2, sample_routed_at=NOW(), sample_routed_by=$3,
                       sample_notes=TRIM(BOTH E'\n' FROM sample_notes || E'\n' || $4), updated_at=NOW()
                   WHERE id=$5`
	tag, err := tx.Exec(ctx, query, update.RoutedTo, update.Status, routedBy, appendNotes, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func appendAuditTx(ctx context.Context, tx pgx.Tx, entry model.AuditEntry) error {
	const query = `INSERT INTO audit_log (actor_id, actor_role, action, target_type, target_id, old_value, new_value, note)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := tx.Exec(ctx, query, entry.ActorID, entry.ActorRole, entry.Action, entry.TargetType, entry.TargetID, entry.OldValue, entry.NewValue, entry.Note)
	return err
}

func enqueueNotificationTx(ctx context.Context, tx pgx.Tx, n model.Notification) error {
	const query = `INSERT INTO notifications (recipient_id, kind, subject, body, status) VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(ctx, query, n.RecipientID, n.Kind, n.Subject, n.Body, n.Status)
	return err
}

func (r *orderRepository) RouteSample(ctx context.Context, orderID int64, update model.SampleRouteUpdate, routedBy int64, appendNotes string, audit model.AuditEntry, notification *model.Notification) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := routeSampleTx(ctx, tx, orderID, update, routedBy, appendNotes); err != nil {
			return err
		}
		if err := appendAuditTx(ctx, tx, audit); err != nil {
			return err
		}
		if notification != nil {
			if err := enqueueNotificationTx(ctx, tx, *notification); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) SetPaid(ctx context.Context, orderID int64, paid bool) error {
	const query = `UPDATE orders SET paid=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, paid, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ProductRepository implementation ---

const productColumns = `id, order_id, name, sku, manufacturer_price, client_price,
       status, routed_to, routed_at, routed_by, invoiced, invoice_id,
       estimated_ship_date, shipped_date, production_days, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.OrderProduct, error) {
	var p model.OrderProduct
	err := row.Scan(&p.ID, &p.OrderID, &p.Name, &p.SKU, &p.ManufacturerPrice, &p.ClientPrice,
		&p.Status, &p.RoutedTo, &p.RoutedAt, &p.RoutedBy, &p.Invoiced, &p.InvoiceID,
		&p.EstimatedShipDate, &p.ShippedDate, &p.ProductionDays, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.OrderProduct, error) {
	query := `SELECT ` + productColumns + ` FROM order_products WHERE id=$1`
	return scanProduct(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	query := `SELECT ` + productColumns + ` FROM order_products WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderProduct
	for rows.Next() {
		var p model.OrderProduct
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Name, &p.SKU, &p.ManufacturerPrice, &p.ClientPrice,
			&p.Status, &p.RoutedTo, &p.RoutedAt, &p.RoutedBy, &p.Invoiced, &p.InvoiceID,
			&p.EstimatedShipDate, &p.ShippedDate, &p.ProductionDays, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) ItemsByProduct(ctx context.Context, productID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, product_id, quantity, variant FROM order_items WHERE product_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Variant); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- InvoiceRepository implementation ---

// NextSequence is a single atomic upsert-increment, so two concurrent invoice
// creations for the same client can never draw the same number.
func (r *invoiceRepository) NextSequence(ctx context.Context, clientID int64, prefix string) (int64, error) {
	const query = `INSERT INTO invoice_sequences (client_id, prefix, counter)
                   VALUES ($1, $2, 1)
                   ON CONFLICT (client_id) DO UPDATE SET counter = invoice_sequences.counter + 1
                   RETURNING counter`
	var counter int64
	if err := r.storage.pool.QueryRow(ctx, query, clientID, prefix).Scan(&counter); err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *invoiceRepository) CreateWithItems(ctx context.Context, invoice model.Invoice, items []model.InvoiceItem) (*model.Invoice, error) {
	result := invoice
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertInvoice = `INSERT INTO invoices (number, client_id, order_id, total, payment_link, pdf_url)
                               VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertInvoice, invoice.Number, invoice.ClientID, invoice.OrderID, invoice.Total, invoice.PaymentLink, invoice.PDFURL).Scan(&result.ID, &result.CreatedAt); err != nil {
			return err
		}
		for _, item := range items {
			const insertItem = `INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price)
                                VALUES ($1, $2, $3, $4, $5)`
			if _, err := tx.Exec(ctx, insertItem, result.ID, item.ProductID, item.Description, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
			if item.ProductID != nil {
				const markInvoiced = `UPDATE order_products SET invoiced=TRUE, invoice_id=$1, updated_at=NOW() WHERE id=$2 AND invoiced=FALSE`
				tag, err := tx.Exec(ctx, markInvoiced, result.ID, *item.ProductID)
				if err != nil {
					return err
				}
				if tag.RowsAffected() == 0 {
					return domainErrors.ErrAlreadyInvoiced
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	const query = `SELECT id, number, client_id, order_id, total, payment_link, pdf_url, sent_at, created_at
                   FROM invoices WHERE id=$1`
	var inv model.Invoice
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.OrderID, &inv.Total, &inv.PaymentLink, &inv.PDFURL, &inv.SentAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Items(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error) {
	const query = `SELECT id, invoice_id, product_id, description, quantity, unit_price
                   FROM invoice_items WHERE invoice_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.InvoiceItem
	for rows.Next() {
		var item model.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) ListForClient(ctx context.Context, clientID int64) ([]model.Invoice, error) {
	const query = `SELECT id, number, client_id, order_id, total, payment_link, pdf_url, sent_at, created_at
                   FROM invoices WHERE client_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.OrderID, &inv.Total, &inv.PaymentLink, &inv.PDFURL, &inv.SentAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) MarkSent(ctx context.Context, invoiceID int64) error {
	const query = `UPDATE invoices SET sent_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, invoiceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- AuditRepository implementation ---

func (r *auditRepository) Append(ctx context.Context, entry model.AuditEntry) error {
	const query = `INSERT INTO audit_log (actor_id, actor_role, action, target_type, target_id, old_value, new_value, note)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.storage.pool.Exec(ctx, query, entry.ActorID, entry.ActorRole, entry.Action, entry.TargetType, entry.TargetID, entry.OldValue, entry.NewValue, entry.Note)
	return err
}

func (r *auditRepository) ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.AuditEntry, error) {
	const query = `SELECT id, actor_id, actor_role, action, target_type, target_id, old_value, new_value, note, created_at
                   FROM audit_log WHERE target_type=$1 AND target_id=$2 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.TargetType, &e.TargetID, &e.OldValue, &e.NewValue, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- NotificationRepository implementation ---

func (r *notificationRepository) Enqueue(ctx context.Context, n model.Notification) (*model.Notification, error) {
	const query = `INSERT INTO notifications (recipient_id, kind, subject, body, status)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	result := n
	if result.Status == "" {
		result.Status = model.NotificationStatusPending
	}
	err := r.storage.pool.QueryRow(ctx, query, n.RecipientID, n.Kind, n.Subject, n.Body, result.Status).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error) {
	const query = `SELECT id, recipient_id, kind, subject, body, status, created_at, sent_at
                   FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Subject, &n.Body, &n.Status, &n.CreatedAt, &n.SentAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *notificationRepository) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Notification, error) {
	// 'sending' rows are re-claimed too: a crash between the claim and the
	// sent/failed mark would otherwise strand them forever.
	const selectQuery = `SELECT id, recipient_id, kind, subject, body, status, created_at, sent_at
                         FROM notifications
                         WHERE status IN ('pending', 'sending')
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var notifications []model.Notification
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var n model.Notification
			if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Subject, &n.Body, &n.Status, &n.CreatedAt, &n.SentAt); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `UPDATE notifications SET status='sending' WHERE id=$1`, n.ID); err != nil {
				return err
			}
			n.Status = model.NotificationStatusSending
			notifications = append(notifications, n)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64) error {
	const query = `UPDATE notifications SET status='sent', sent_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id int64) error {
	const query = `UPDATE notifications SET status='failed' WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

// --- SystemConfigRepository implementation ---

func (r *systemConfigRepository) GetFloat(ctx context.Context, key string) (*float64, error) {
	const query = `SELECT value::DOUBLE PRECISION FROM system_config WHERE key=$1 AND value ~ '^-?[0-9]+(\.[0-9]+)?$'`
	var value float64
	err := r.storage.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

// --- MediaRepository implementation ---

func (r *mediaRepository) Add(ctx context.Context, orderID int64, url, kind string) (*model.OrderMedia, error) {
	const query = `INSERT INTO order_media (order_id, url, kind) VALUES ($1, $2, $3) RETURNING id, created_at`
	m := model.OrderMedia{OrderID: orderID, URL: url, Kind: kind}
	if err := r.storage.pool.QueryRow(ctx, query, orderID, url, kind).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderMedia, error) {
	const query = `SELECT id, order_id, url, kind, created_at FROM order_media WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderMedia
	for rows.Next() {
		var m model.OrderMedia
		if err := rows.Scan(&m.ID, &m.OrderID, &m.URL, &m.Kind, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *mediaRepository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM order_media WHERE order_id=$1`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
