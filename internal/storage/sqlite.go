package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tirelire/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the document in a SQLite database. Save
// replaces the whole document inside a single transaction, mirroring the
// full-snapshot write semantics of the file gateway.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load assembles the document from the tables. A missing settings row
// means a fresh database: a default document is created and persisted.
func (r *SQLiteRepository) Load(ctx context.Context) (*core.Document, error) {
	doc := core.NewDocument("")

	err := r.db.QueryRowContext(ctx,
		`SELECT salary_cents, current_month FROM settings WHERE id = 1`,
	).Scan(&doc.Salary.Cents, &doc.CurrentMonth)
	if err == sql.ErrNoRows {
		doc.CurrentMonth = core.MonthToken(time.Now())
		if err := r.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("initialize document: %w", err)
		}
		slog.InfoContext(ctx, "Initialized empty budget document in sqlite")
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if err := r.loadCategories(ctx, doc); err != nil {
		return nil, err
	}
	if err := r.loadTransactions(ctx, doc); err != nil {
		return nil, err
	}
	if err := r.loadRecurring(ctx, doc); err != nil {
		return nil, err
	}
	if err := r.loadGoals(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *SQLiteRepository) loadCategories(ctx context.Context, doc *core.Document) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, name, budget_cents, spent_cents, color FROM categories`)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		cat := &core.Category{}
		if err := rows.Scan(&key, &cat.Name, &cat.Budget.Cents, &cat.Spent.Cents, &cat.Color); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		doc.Categories[key] = cat
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadTransactions(ctx context.Context, doc *core.Document) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_key, amount_cents, description, date
		 FROM transactions ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		tx := &core.Transaction{}
		var date string
		if err := rows.Scan(&tx.ID, &tx.Category, &tx.Amount.Cents, &tx.Description, &date); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		doc.Transactions = append(doc.Transactions, tx)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadRecurring(ctx context.Context, doc *core.Document) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category_key, amount_cents, frequency, day, active, last_processed
		 FROM recurring_transactions ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load recurring transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		def := &core.RecurringTransaction{}
		var freq string
		var lastProcessed sql.NullString
		if err := rows.Scan(&def.ID, &def.Name, &def.Category, &def.Amount.Cents,
			&freq, &def.Day, &def.Active, &lastProcessed); err != nil {
			return fmt.Errorf("scan recurring transaction: %w", err)
		}
		def.Frequency = core.Frequency(freq)
		if lastProcessed.Valid {
			t, err := time.Parse(time.RFC3339Nano, lastProcessed.String)
			if err != nil {
				return fmt.Errorf("parse last_processed %q: %w", lastProcessed.String, err)
			}
			def.LastProcessed = &t
		}
		doc.RecurringTransactions = append(doc.RecurringTransactions, def)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadGoals(ctx context.Context, doc *core.Document) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, created_at, completed
		 FROM savings_goals ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load savings goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		g := &core.SavingsGoal{}
		var deadline, createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents,
			&deadline, &createdAt, &g.Completed); err != nil {
			return fmt.Errorf("scan savings goal: %w", err)
		}
		if g.Deadline, err = time.Parse(time.RFC3339Nano, deadline); err != nil {
			return fmt.Errorf("parse goal deadline %q: %w", deadline, err)
		}
		if g.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return fmt.Errorf("parse goal created_at %q: %w", createdAt, err)
		}
		doc.SavingsGoals = append(doc.SavingsGoals, g)
	}
	return rows.Err()
}

// Save replaces the stored document in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, doc *core.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"categories", "transactions", "recurring_transactions", "savings_goals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (id, salary_cents, current_month) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET salary_cents = excluded.salary_cents,
		                               current_month = excluded.current_month`,
		doc.Salary.Cents, doc.CurrentMonth); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	for key, cat := range doc.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (key, name, budget_cents, spent_cents, color)
			 VALUES (?, ?, ?, ?, ?)`,
			key, cat.Name, cat.Budget.Cents, cat.Spent.Cents, cat.Color); err != nil {
			return fmt.Errorf("save category %q: %w", key, err)
		}
	}

	for i, t := range doc.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, category_key, amount_cents, description, date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Category, t.Amount.Cents, t.Description,
			t.Date.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("save transaction %q: %w", t.ID, err)
		}
	}

	for i, def := range doc.RecurringTransactions {
		var lastProcessed any
		if def.LastProcessed != nil {
			lastProcessed = def.LastProcessed.Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recurring_transactions
			 (id, position, name, category_key, amount_cents, frequency, day, active, last_processed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			def.ID, i, def.Name, def.Category, def.Amount.Cents,
			string(def.Frequency), def.Day, def.Active, lastProcessed); err != nil {
			return fmt.Errorf("save recurring transaction %q: %w", def.ID, err)
		}
	}

	for i, g := range doc.SavingsGoals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO savings_goals
			 (id, position, name, target_cents, current_cents, deadline, created_at, completed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Name, g.Target.Cents, g.Current.Cents,
			g.Deadline.Format(time.RFC3339Nano), g.CreatedAt.Format(time.RFC3339Nano),
			g.Completed); err != nil {
			return fmt.Errorf("save savings goal %q: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}
