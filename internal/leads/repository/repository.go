package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"leadportal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("lead not found")

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository runs on the elevated service connection. Caller-scoped
// statements switch to callerRole inside their own transaction.
type Repository struct {
	db         DBTX
	callerRole string
}

func New(db DBTX, callerRole string) *Repository {
	if strings.TrimSpace(callerRole) == "" {
		callerRole = "authenticated"
	}
	return &Repository{db: db, callerRole: callerRole}
}

const leadColumns = `id, created_at, updated_at, name, email, company, phone, message,
	source, utm_source, utm_medium, utm_campaign, referrer, locale, product_slug, category,
	ip_address, user_agent, country, priority, score, status, meta, tags, gdpr_consent, deleted`

// likeEscaper makes user search text match literally inside ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type ListParams struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

// Insert writes one lead and returns it with its storage-assigned id and timestamps.
func (r *Repository) Insert(ctx context.Context, rec domain.LeadRecord) (domain.LeadRecord, error) {
	meta, err := json.Marshal(rec.Meta)
	if err != nil {
		return domain.LeadRecord{}, fmt.Errorf("marshal lead meta: %w", err)
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO leads (
			name, email, company, phone, message,
			source, utm_source, utm_medium, utm_campaign, referrer, locale, product_slug, category,
			ip_address, user_agent, country, priority, score, status, meta, tags, gdpr_consent, deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id, created_at, updated_at`,
		rec.Name, rec.Email, rec.Company, rec.Phone, rec.Message,
		rec.Source, rec.UTMSource, rec.UTMMedium, rec.UTMCampaign, rec.Referrer, rec.Locale, rec.ProductSlug, rec.Category,
		rec.IPAddress, rec.UserAgent, rec.Country, string(rec.Priority), rec.Score, string(rec.Status), meta, tags, rec.GDPRConsent, rec.Deleted,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.LeadRecord{}, err
	}
	rec.Tags = tags
	return rec, nil
}

// Exists reports whether a row with id exists, soft-deleted or not.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error) {
	rec, err := scanLead(r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 AND deleted = false`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LeadRecord{}, ErrNotFound
	}
	return rec, err
}

// List returns one page of non-deleted leads, newest first, and the total match count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.LeadRecord, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	where := []string{"deleted = false"}
	args := []any{}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR email ILIKE $%d ESCAPE '\' OR company ILIKE $%d ESCAPE '\')`, n, n, n))
	}
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]domain.LeadRecord, 0)
	total := 0
	for rows.Next() {
		rec, err := scanLead(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return items, total, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.LeadRecord, error) {
	rec, err := scanLead(r.db.QueryRow(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1 AND deleted = false
		RETURNING `+leadColumns, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LeadRecord{}, ErrNotFound
	}
	return rec, err
}

func scanLead(row pgx.Row, extra ...any) (domain.LeadRecord, error) {
	var (
		rec      domain.LeadRecord
		priority string
		status   string
		meta     []byte
	)
	dest := []any{
		&rec.ID, &rec.CreatedAt, &rec.UpdatedAt, &rec.Name, &rec.Email, &rec.Company, &rec.Phone, &rec.Message,
		&rec.Source, &rec.UTMSource, &rec.UTMMedium, &rec.UTMCampaign, &rec.Referrer, &rec.Locale, &rec.ProductSlug, &rec.Category,
		&rec.IPAddress, &rec.UserAgent, &rec.Country, &priority, &rec.Score, &status, &meta, &rec.Tags, &rec.GDPRConsent, &rec.Deleted,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.LeadRecord{}, err
	}
	rec.Priority = domain.Priority(priority)
	rec.Status = domain.Status(status)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rec.Meta); err != nil {
			return domain.LeadRecord{}, fmt.Errorf("decode lead meta: %w", err)
		}
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}
