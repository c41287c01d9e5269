// Package credentials persists the full username → record mapping.
//
// Two backends exist: FileRepository keeps a single JSON document and
// recovers from unparseable content by moving it to a backup file, and
// SQLiteRepository keeps one row per user. Both load and save the whole
// mapping at once; every Save is a complete overwrite.
package credentials
