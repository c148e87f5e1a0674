package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conciergehq/concierge/store"
)

func (d *DB) UpsertCredential(ctx context.Context, upsert *store.UpsertCredential) (*store.Credential, error) {
	stmt := `
		INSERT INTO credential (user_id, provider, access_token, refresh_token, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_ts = strftime('%s', 'now')
		RETURNING id, user_id, provider, access_token, refresh_token, expires_at, created_ts, updated_ts`

	credential := store.Credential{}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Provider,
		upsert.AccessToken,
		upsert.RefreshToken,
		upsert.ExpiresAt,
	).Scan(
		&credential.ID,
		&credential.UserID,
		&credential.Provider,
		&credential.AccessToken,
		&credential.RefreshToken,
		&credential.ExpiresAt,
		&credential.CreatedTs,
		&credential.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert credential: %w", err)
	}

	return &credential, nil
}

func (d *DB) GetCredential(ctx context.Context, find *store.FindCredential) (*store.Credential, error) {
	stmt := `
		SELECT id, user_id, provider, access_token, refresh_token, expires_at, created_ts, updated_ts
		FROM credential
		WHERE user_id = ? AND provider = ?`

	credential := store.Credential{}
	if err := d.db.QueryRowContext(ctx, stmt, find.UserID, find.Provider).Scan(
		&credential.ID,
		&credential.UserID,
		&credential.Provider,
		&credential.AccessToken,
		&credential.RefreshToken,
		&credential.ExpiresAt,
		&credential.CreatedTs,
		&credential.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &credential, nil
}

func (d *DB) DeleteCredential(ctx context.Context, delete *store.DeleteCredential) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM credential WHERE user_id = ? AND provider = ?`,
		delete.UserID, delete.Provider,
	); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
