// Package services contains the authentication service: registration of new
// users and verification of login attempts against the credential store.
package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
)

// AuthService defines the authentication operations used by the CLI.
//
// The error return is reserved for storage faults and broken invariants;
// taken names and failed logins are reported through Result.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) (Result, error)
	Authenticate(ctx context.Context, username string, password []byte) (Result, error)
}

// CredentialStore is the part of store.Store the service needs.
type CredentialStore interface {
	Exists(username string) bool
	GetCredentials(ctx context.Context, username string) (salt, key []byte, err error)
	PutCredentials(ctx context.Context, username string, salt, key []byte) error
}

type authService struct {
	store CredentialStore
	kdf   cryptox.KDF
	log   logging.Logger
}

func NewAuthService(store CredentialStore, kdf cryptox.KDF, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{store: store, kdf: kdf, log: log}
}

func (a *authService) opLogger(op, username string) logging.Logger {
	return a.log.With("op", op, "op_id", uuid.NewString(), "username", username)
}

// Register creates username with a fresh salt and the derived key. An
// existing username is left untouched and UsernameTaken is returned.
// Usernames must be valid UTF-8 so they survive the JSON store unchanged;
// anything else is InvalidUsername.
func (a *authService) Register(ctx context.Context, username string, password []byte) (Result, error) {
	log := a.opLogger("register", username)
	log.Debug(ctx, "registering")

	if !utf8.ValidString(username) {
		log.Info(ctx, "registration refused", "result", InvalidUsername)
		return InvalidUsername, nil
	}

	if a.store.Exists(username) {
		log.Info(ctx, "registration refused", "result", UsernameTaken)
		return UsernameTaken, nil
	}

	log.Debug(ctx, "hashing password")
	salt, key, err := a.kdf.DeriveKey(password, nil)
	if err != nil {
		return Unknown, fmt.Errorf("derive key: %w", err)
	}
	defer common.WipeByteArray(key)

	if err := a.store.PutCredentials(ctx, username, salt, key); err != nil {
		log.Error(ctx, "registration failed", "error", err)
		return Unknown, fmt.Errorf("store credentials: %w", err)
	}

	log.Info(ctx, "registered", "result", Success)
	return Success, nil
}

// Authenticate re-derives the key from password and the stored salt and
// compares it with the stored key in constant time.
func (a *authService) Authenticate(ctx context.Context, username string, password []byte) (Result, error) {
	log := a.opLogger("authenticate", username)
	log.Debug(ctx, "authenticating")

	if !a.store.Exists(username) {
		log.Info(ctx, "authentication failed", "result", InvalidUser)
		return InvalidUser, nil
	}

	salt, stored, err := a.store.GetCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			log.Error(ctx, "user vanished between existence check and lookup")
		}
		return Unknown, fmt.Errorf("load credentials: %w", err)
	}

	log.Debug(ctx, "hashing password")
	_, candidate, err := a.kdf.DeriveKey(password, salt)
	if err != nil {
		return Unknown, fmt.Errorf("derive key: %w", err)
	}
	defer common.WipeByteArray(candidate)

	if !cryptox.Equal(stored, candidate) {
		log.Info(ctx, "authentication failed", "result", InvalidPassword)
		return InvalidPassword, nil
	}

	log.Info(ctx, "authenticated", "result", Success)
	return Success, nil
}
