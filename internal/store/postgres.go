package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkshort/internal/shortener"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.LinkStore.
// The unique index on short_code is the sole uniqueness authority; there is
// no prior existence check anywhere in the write path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS short_links (
			id           UUID PRIMARY KEY,
			short_code   TEXT NOT NULL UNIQUE,
			original_url TEXT NOT NULL,
			owner_id     TEXT,
			click_count  BIGINT NOT NULL DEFAULT 0,
			expires_at   TIMESTAMPTZ,
			is_active    BOOLEAN NOT NULL DEFAULT TRUE,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS click_events (
			id         BIGSERIAL PRIMARY KEY,
			link_id    UUID NOT NULL REFERENCES short_links(id) ON DELETE CASCADE,
			clicked_at TIMESTAMPTZ NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			referrer   TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_short_links_owner
			ON short_links (owner_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_click_events_link
			ON click_events (link_id, id);
	`

	_, err := p.pool.Exec(ctx, schema)

	return err
}

func (p *PostgresStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (id, short_code, original_url, owner_id, expires_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`

	id := uuid.NewString()

	err := p.pool.QueryRow(ctx, query,
		id,
		string(link.Code),
		link.OriginalURL,
		nullableString(link.OwnerID),
		link.ExpiresAt,
		link.Active,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shortener.ErrDuplicateCode
		}

		return err
	}

	link.ID = id

	return nil
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := selectLink + ` WHERE short_code = $1`

	return p.scanLink(p.pool.QueryRow(ctx, query, string(code)))
}

func (p *PostgresStore) FindByID(ctx context.Context, id string) (*shortener.ShortLink, error) {
	query := selectLink + ` WHERE id = $1`

	return p.scanLink(p.pool.QueryRow(ctx, query, id))
}

func (p *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]*shortener.ShortLink, error) {
	query := selectLink + ` WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*shortener.ShortLink

	for rows.Next() {
		link, err := p.scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

// IncrementClickAndAppend bumps the counter and appends the event in a single
// statement so concurrent clicks never lose updates.
func (p *PostgresStore) IncrementClickAndAppend(
	ctx context.Context, code shortener.Code, event shortener.ClickEvent,
) error {
	query := `
		WITH bumped AS (
			UPDATE short_links
			SET click_count = click_count + 1, updated_at = now()
			WHERE short_code = $1
			RETURNING id
		)
		INSERT INTO click_events (link_id, clicked_at, ip_address, user_agent, referrer)
		SELECT id, $2, $3, $4, $5 FROM bumped
	`

	tag, err := p.pool.Exec(ctx, query,
		string(code),
		event.Timestamp,
		nullableString(event.IPAddress),
		nullableString(event.UserAgent),
		nullableString(event.Referrer),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Clicks(ctx context.Context, code shortener.Code) ([]shortener.ClickEvent, error) {
	query := `
		SELECT e.clicked_at, e.ip_address, e.user_agent, e.referrer
		FROM click_events e
		JOIN short_links l ON l.id = e.link_id
		WHERE l.short_code = $1
		ORDER BY e.id
	`

	rows, err := p.pool.Query(ctx, query, string(code))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []shortener.ClickEvent

	for rows.Next() {
		var (
			event         shortener.ClickEvent
			ip, ua, refer *string
		)

		if err := rows.Scan(&event.Timestamp, &ip, &ua, &refer); err != nil {
			return nil, err
		}

		event.IPAddress = deref(ip)
		event.UserAgent = deref(ua)
		event.Referrer = deref(refer)

		events = append(events, event)
	}

	return events, rows.Err()
}

func (p *PostgresStore) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE short_links SET is_active = $2, updated_at = now() WHERE id = $1`

	tag, err := p.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM short_links WHERE id = $1`

	tag, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

const selectLink = `
	SELECT id, short_code, original_url, owner_id, click_count, expires_at, is_active, created_at, updated_at
	FROM short_links
`

func (p *PostgresStore) scanLink(row pgx.Row) (*shortener.ShortLink, error) {
	var (
		link    shortener.ShortLink
		ownerID *string
	)

	err := row.Scan(
		&link.ID,
		&link.Code,
		&link.OriginalURL,
		&ownerID,
		&link.ClickCount,
		&link.ExpiresAt,
		&link.Active,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	link.OwnerID = deref(ownerID)

	return &link, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Compile-time check.
var _ shortener.LinkStore = (*PostgresStore)(nil)
