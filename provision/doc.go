// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package provision creates consumer accounts.

A signup produces two rows: a users row (the identity, role "consumer") and
a consumers row whose user_id is the id generated by that users insert.
Both are written in one transaction.

	writer := provision.NewWriter(conn, hasher, cfg.WriteTimeout, metrics)
	consumer, err := writer.Provision(ctx, req)

# Lifecycle

	received → validating → hashing → writing → committed
	                 │            │          │
	                 └────────────┴──────────┴──→ aborted

Validation runs before anything else and rejects missing or malformed
fields. The credential is hashed exactly once, before the transaction is
opened, and the same hash is stored on both rows. Nothing is retried.

# Errors

Every failure wraps one kind, checked with errors.Is:

  - ErrValidation: missing/invalid fields (see Error.Fields); nothing hashed or written
  - ErrConflict: the email already belongs to an identity; nothing written
  - ErrHashing: the hasher failed (e.g. no entropy); nothing written
  - ErrStorage: any other database failure, including an unknown admin_id,
    a timeout or a failed commit; the transaction is rolled back

# Concurrency

Writer keeps no mutable state. Concurrent signups for one email are
settled by the UNIQUE constraint on users.email: exactly one commits and
the rest get ErrConflict.
*/
package provision
