// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package provision

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/carelink/db"
	"github.com/danielhkuo/carelink/models"
)

// Lifecycle states, logged as a request moves through Provision
const (
	StateReceived   = "received"
	StateValidating = "validating"
	StateHashing    = "hashing"
	StateWriting    = "writing"
	StateCommitted  = "committed"
	StateAborted    = "aborted"
)

// Outcome labels
const (
	OutcomeCommitted  = "committed"
	OutcomeValidation = "validation"
	OutcomeConflict   = "conflict"
	OutcomeHashing    = "hashing"
	OutcomeStorage    = "storage"
)

// CredentialHasher derives a salted one-way hash of a plaintext credential
type CredentialHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

// Observer receives timing and outcome of each provisioning attempt
type Observer interface {
	ObserveHash(d time.Duration, err error)
	ObserveOutcome(outcome string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveHash(time.Duration, error)     {}
func (nopObserver) ObserveOutcome(string, time.Duration) {}

// Writer creates a consumer identity and its dependent consumer row as one
// atomic unit. It holds no mutable state and is safe for concurrent use.
type Writer struct {
	db           *sql.DB
	hasher       CredentialHasher
	writeTimeout time.Duration
	observer     Observer
}

// NewWriter builds a Writer. A zero writeTimeout leaves the transaction
// bounded only by the caller's context; a nil observer discards metrics.
func NewWriter(conn *sql.DB, hasher CredentialHasher, writeTimeout time.Duration, observer Observer) *Writer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Writer{
		db:           conn,
		hasher:       hasher,
		writeTimeout: writeTimeout,
		observer:     observer,
	}
}

// Provision validates req, hashes the credential once, then inserts the
// users row (role "consumer") and the consumers row linked to its generated
// id in a single transaction. Either both rows commit or neither does.
//
// Errors wrap ErrValidation, ErrConflict, ErrHashing or ErrStorage.
func (w *Writer) Provision(ctx context.Context, req models.SignupRequest) (models.Consumer, error) {
	start := time.Now()
	logger := slog.With("admin_id", req.AdminID)
	logger.Debug("provisioning", "state", StateReceived)

	consumer, err := w.provision(ctx, logger, req)

	w.observer.ObserveOutcome(Outcome(err), time.Since(start))
	if err != nil {
		logger.Debug("provisioning", "state", StateAborted, "outcome", Outcome(err))
		return models.Consumer{}, err
	}

	logger.Debug("provisioning", "state", StateCommitted)
	slog.Info("consumer provisioned",
		"consumer_id", consumer.ID,
		"user_id", consumer.UserID,
		"admin_id", consumer.AdminID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return consumer, nil
}

func (w *Writer) provision(ctx context.Context, logger *slog.Logger, req models.SignupRequest) (models.Consumer, error) {
	logger.Debug("provisioning", "state", StateValidating)
	req, err := Validate(req)
	if err != nil {
		return models.Consumer{}, err
	}

	// Hash before the transaction so no connection is held while it runs
	logger.Debug("provisioning", "state", StateHashing)
	hashStart := time.Now()
	hash, err := w.hasher.Hash(ctx, req.Password)
	w.observer.ObserveHash(time.Since(hashStart), err)
	if err != nil {
		return models.Consumer{}, hashingError(err)
	}

	logger.Debug("provisioning", "state", StateWriting)
	return w.write(ctx, req, hash)
}

func (w *Writer) write(ctx context.Context, req models.SignupRequest, hash string) (models.Consumer, error) {
	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Consumer{}, storageError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	// No-op after Commit; otherwise undoes the users insert
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, emergency_contact, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.Name, req.Email, hash, req.EmergencyContact, models.RoleConsumer).Scan(&userID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Consumer{}, conflictError(err)
		}
		return models.Consumer{}, storageError(fmt.Errorf("failed to insert user: %w", err))
	}

	var (
		c       models.Consumer
		prefs   []byte
		created db.Time
	)
	err = tx.QueryRowContext(ctx, `
		INSERT INTO consumers (name, email, relationship, emergency_contact, password, preference_forms, admin_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, relationship, emergency_contact, password, preference_forms, admin_id, user_id, created_at
	`, req.Name, req.Email, req.Relationship, req.EmergencyContact, hash, string(req.PreferenceForms), req.AdminID, userID).Scan(
		&c.ID, &c.Name, &c.Email, &c.Relationship, &c.EmergencyContact,
		&c.PasswordHash, &prefs, &c.AdminID, &c.UserID, &created,
	)
	if err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			slog.Warn("consumer insert rejected: unknown admin", "admin_id", req.AdminID)
		case db.IsConstraintViolation(err):
			slog.Warn("consumer insert rejected by constraint", "admin_id", req.AdminID, "error", err)
		}
		return models.Consumer{}, storageError(fmt.Errorf("failed to insert consumer: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return models.Consumer{}, storageError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	c.PreferenceForms = json.RawMessage(prefs)
	c.CreatedAt = created.Time
	return c, nil
}
