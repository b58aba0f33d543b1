// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the storage engine handle: opening it, creating the schema
and classifying driver errors.

# Opening

Open picks the driver from cfg.DatabaseType, tunes the pool and pings:

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

Postgres uses github.com/lib/pq. SQLite uses modernc.org/sqlite with
foreign keys enabled, a busy timeout, immediate write transactions, and a
single connection.

# Schema Creation

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identities; email is UNIQUE, role is 'consumer' or 'admin'
  - consumers: dependents; preference_forms holds JSON verbatim

# Relationships

	users 1──1 consumers (consumers.user_id, UNIQUE, ON DELETE CASCADE)
	users 1──* consumers (consumers.admin_id, owning admin)

# Errors

	db.IsUniqueViolation(err)     // 23505 / SQLITE_CONSTRAINT_UNIQUE
	db.IsForeignKeyViolation(err) // 23503 / SQLITE_CONSTRAINT_FOREIGNKEY
	db.IsConstraintViolation(err) // any integrity constraint
*/
package db
