// Package store keeps the username → credential mapping in memory and
// mirrors every change to a credentials.Repository.
//
// The store is loaded once, records are only ever inserted, and each insert
// is saved synchronously before PutCredentials returns. A Store is not safe
// for concurrent use.
package store

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/models"
	"github.com/dmitrijs2005/localauth/internal/repositories/credentials"
)

type Store struct {
	repo    credentials.Repository
	records map[string]models.Record
	log     logging.Logger
}

func New(repo credentials.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, records: map[string]models.Record{}, log: log}
}

// Load replaces the in-memory mapping with the repository contents.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if records == nil {
		records = map[string]models.Record{}
	}
	s.records = records
	s.log.Info(ctx, "credential store ready", "users", len(records))
	return nil
}

// Save writes the whole mapping back to the repository.
func (s *Store) Save(ctx context.Context) error {
	return s.repo.Save(ctx, s.records)
}

func (s *Store) Exists(username string) bool {
	_, ok := s.records[username]
	return ok
}

func (s *Store) Len() int {
	return len(s.records)
}

// Usernames returns the registered names in sorted order.
func (s *Store) Usernames() []string {
	return slices.Sorted(maps.Keys(s.records))
}

// GetCredentials returns the decoded salt and key for username, or
// common.ErrorNotFound. A field that does not decode, or decodes to the wrong
// length, is common.ErrStorageCorrupt.
func (s *Store) GetCredentials(ctx context.Context, username string) ([]byte, []byte, error) {
	s.log.Debug(ctx, "getting credentials", "username", username)

	rec, ok := s.records[username]
	if !ok {
		return nil, nil, fmt.Errorf("credentials for %q: %w", username, common.ErrorNotFound)
	}
	salt, err := cryptox.Decode(rec.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: salt of %q: %w", common.ErrStorageCorrupt, username, err)
	}
	key, err := cryptox.Decode(rec.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: key of %q: %w", common.ErrStorageCorrupt, username, err)
	}
	if len(salt) != cryptox.SaltSize || len(key) != cryptox.KeySize {
		return nil, nil, fmt.Errorf("%w: %q has salt of %d bytes and key of %d bytes",
			common.ErrStorageCorrupt, username, len(salt), len(key))
	}
	return salt, key, nil
}

// PutCredentials sets salt and key on username's record and saves the store.
// A new record starts with models.DefaultProfile; an existing one keeps its
// profile. If the save fails the in-memory change is undone.
func (s *Store) PutCredentials(ctx context.Context, username string, salt, key []byte) error {
	s.log.Debug(ctx, "putting credentials", "username", username)

	prev, existed := s.records[username]

	rec := models.Record{Profile: models.DefaultProfile()}
	if existed {
		rec = prev.Clone()
	}
	rec.Salt = cryptox.Encode(salt)
	rec.Key = cryptox.Encode(key)
	s.records[username] = rec

	if err := s.Save(ctx); err != nil {
		if existed {
			s.records[username] = prev
		} else {
			delete(s.records, username)
		}
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.repo.Close()
}
