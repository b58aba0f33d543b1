// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Later sources override earlier ones:

 1. Defaults (port 8000, argon2id m=64MiB t=2 p=1, 10s write timeout)
 2. YAML file given by -c or CONFIG_FILE
 3. dotenv file (-env-file, default ".env"; a missing file is ignored and
    it never overrides variables already in the environment)
 4. Process environment
 5. CLI flags

# CLI Flags

	-p         Server port
	-d         Database URL
	-t         Database type (postgres or sqlite)
	-c         YAML config file
	-env-file  dotenv file

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE
	DB_MAX_OPEN_CONNS, DB_WRITE_TIMEOUT
	HASH_MEMORY_KB, HASH_ITERATIONS, HASH_THREADS, HASH_CONCURRENCY
	SIGNUP_RPS, SIGNUP_BURST
	CORS_ORIGIN, LOG_LEVEL, LOG_FORMAT

# Validation

ParseFlags returns an error if the database URL is missing, the database
type is neither postgres nor sqlite (it is inferred from the URL when
unset), or a value cannot be parsed.
*/
package cliparse
