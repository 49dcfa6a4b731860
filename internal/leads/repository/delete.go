package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadportal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// ErrNoRowsAffected means the statement ran but touched no row. Row-level
// security filters rows silently, so a blocked delete looks like this.
var ErrNoRowsAffected = errors.New("no rows affected")

// ErrFunctionRefused means delete_lead ran and reported that nothing was deleted.
var ErrFunctionRefused = errors.New("delete_lead returned false")

// DeleteAsAdmin removes the row on the elevated connection.
func (r *Repository) DeleteAsAdmin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// DeleteAsCaller removes the row with the caller's database role and claims
// in effect, so row-level policies apply as they would for the caller.
func (r *Repository) DeleteAsCaller(ctx context.Context, id uuid.UUID, caller domain.Caller) (err error) {
	claims := make(map[string]interface{}, len(caller.Claims)+1)
	for k, v := range caller.Claims {
		claims[k] = v
	}
	if _, ok := claims["sub"]; !ok && caller.UserID != uuid.Nil {
		claims["sub"] = caller.UserID.String()
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("marshal caller claims: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT set_config('role', $1, true)`, r.callerRole); err != nil {
		return fmt.Errorf("assume caller role: %w", err)
	}
	if _, err = tx.Exec(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, string(claimsJSON)); err != nil {
		return fmt.Errorf("set caller claims: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = ErrNoRowsAffected
		return err
	}

	return tx.Commit(ctx)
}

// DeleteViaFunction calls the security-definer delete_lead function.
func (r *Repository) DeleteViaFunction(ctx context.Context, id uuid.UUID) error {
	var deleted bool
	if err := r.db.QueryRow(ctx, `SELECT delete_lead($1)`, id).Scan(&deleted); err != nil {
		return err
	}
	if !deleted {
		return ErrFunctionRefused
	}
	return nil
}

// SoftDelete overwrites the identifying fields with tomb and flags the row
// as deleted. The status column is not touched.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID, tomb domain.Tombstone) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE leads
		SET name = $2, email = $3, message = $4, deleted = true, updated_at = now()
		WHERE id = $1`,
		id, tomb.Name, tomb.Email, tomb.Message,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
