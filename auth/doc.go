// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential hashing and privacy helpers.

# Credential Hashes

Credentials are hashed with argon2id and a fresh 16-byte random salt:

	hasher := auth.NewHasher(auth.DefaultParams(), 4)
	hash, err := hasher.Hash(ctx, password)

The result is a self-describing PHC string, so the salt and cost parameters
travel with the hash and no separate salt storage is needed:

	$argon2id$v=19$m=65536,t=2,p=1$<salt>$<key>

Identical passwords never produce identical hashes.

# Verification

	err := auth.Verify(password, hash) // nil, ErrMismatchedHash, ErrInvalidHash

Parameters are decoded from the hash, so raising the cost in config does not
break hashes created earlier.

# Concurrency

Hashing is deliberately expensive. A Hasher admits at most maxConcurrent
hashes at a time; further callers block until a slot frees up or their
context ends. Hash never touches storage, so no database connection is held
while it runs.

# IP Hashing

For privacy-preserving logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
