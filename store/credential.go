package store

import "context"

// Credential is a per-user, per-provider OAuth credential record.
// There is exactly one record per (UserID, Provider) pair; writes go
// through an atomic upsert on that composite key.
type Credential struct {
	ID int32

	// Composite key
	UserID   string
	Provider string

	// Opaque bearer material; only the calendar provider client may see it.
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64

	// Standard fields
	CreatedTs int64
	UpdatedTs int64
}

// UpsertCredential is the request to create or replace a credential.
type UpsertCredential struct {
	UserID       string
	Provider     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// FindCredential is the lookup request for a credential.
type FindCredential struct {
	UserID   string
	Provider string
}

// DeleteCredential is the request to remove a credential.
type DeleteCredential struct {
	UserID   string
	Provider string
}

func (s *Store) UpsertCredential(ctx context.Context, upsert *UpsertCredential) (*Credential, error) {
	return s.driver.UpsertCredential(ctx, upsert)
}

// GetCredential returns the credential for (userID, provider), or nil when
// no record exists. Absence is a normal outcome, not an error.
func (s *Store) GetCredential(ctx context.Context, find *FindCredential) (*Credential, error) {
	return s.driver.GetCredential(ctx, find)
}

func (s *Store) DeleteCredential(ctx context.Context, delete *DeleteCredential) error {
	return s.driver.DeleteCredential(ctx, delete)
}
