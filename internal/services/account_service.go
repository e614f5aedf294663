// Package services holds the application services: account registration and
// login, and the ledger operations over a logged-in account. Services mutate
// one shared in-memory document and persist it whole after every mutation.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"tracker/internal/core"
	"tracker/internal/store"
)

// Session identifies the logged-in account. It is an explicit value passed
// to every service call; nothing process-global tracks the current user.
type Session struct {
	UserID string
}

// Active reports whether the session refers to a logged-in account.
func (s Session) Active() bool { return s.UserID != "" }

// HashPassword returns the unsalted sha256 hex digest the document format
// stores. Unsalted hashing is a known weakness of that format, kept for
// compatibility rather than silently upgraded; see DESIGN.md.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// AccountService handles registration, credential checks and session
// lifecycle.
type AccountService struct {
	doc    *core.Document
	store  store.DocumentStore
	logger *slog.Logger
}

func NewAccountService(doc *core.Document, st store.DocumentStore, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{doc: doc, store: st, logger: logger}
}

// Register creates and persists a new account. The monthly budget defaults
// to the initial balance.
func (s *AccountService) Register(ctx context.Context, id, name, password, balanceText string) error {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	balanceText = strings.TrimSpace(balanceText)

	if id == "" || name == "" || password == "" || balanceText == "" {
		return fmt.Errorf("%w: all fields are required", core.ErrValidation)
	}
	balance, err := core.ParseBudget(balanceText)
	if err != nil {
		return fmt.Errorf("%w: initial balance must be a non-negative number", core.ErrValidation)
	}
	if _, exists := s.doc.Users[id]; exists {
		return core.ErrDuplicateAccount
	}

	s.doc.Users[id] = core.NewAccount(name, HashPassword(password), balance)
	persist(ctx, s.store, s.logger, s.doc)
	s.logger.Info("Account registered", "account", id)
	return nil
}

// Login checks credentials and returns a session for the account. An absent
// id and a wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, id, password string) (Session, error) {
	id = strings.TrimSpace(id)
	password = strings.TrimSpace(password)
	if id == "" || password == "" {
		return Session{}, fmt.Errorf("%w: all fields are required", core.ErrValidation)
	}

	acct, ok := s.doc.Users[id]
	if !ok || acct.Password != HashPassword(password) {
		return Session{}, core.ErrAuthentication
	}
	s.logger.Info("Login", "account", id)
	return Session{UserID: id}, nil
}

// Logout clears the session. Logging out changes no account data, so
// nothing is persisted.
func (s *AccountService) Logout(sess Session) Session {
	if sess.Active() {
		s.logger.Info("Logout", "account", sess.UserID)
	}
	return Session{}
}

// Account resolves a session to its live account.
func (s *AccountService) Account(sess Session) (*core.Account, error) {
	acct, ok := s.doc.Users[sess.UserID]
	if !ok {
		return nil, core.ErrAuthentication
	}
	return acct, nil
}

// persist writes the whole document. Failures degrade to a logged warning:
// the in-memory mutation stands and the user keeps working, with the
// understanding that changes were not saved.
func persist(ctx context.Context, st store.DocumentStore, logger *slog.Logger, doc *core.Document) {
	if err := st.Save(ctx, doc); err != nil {
		logger.Warn("Changes not saved", "error", err)
	}
}
