// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides key-value persistence for identities and
// conversation collections.
//
// Two backends implement the same Store contract:
//
//   - FileStore: one JSON file per key with atomic write + fsync
//   - SQLiteStore: a single kv table in one database file
//
// Values are whole-document JSON strings. The conversation collection is
// stored under a key scoped to the active identity's ID; the identity
// record lives under a single fixed key. Missing or malformed data is
// always treated by callers as "nothing saved", never as a hard error.
package storage
