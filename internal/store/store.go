package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver (pure Go)

	"github.com/lokaldigital/site-service/internal/models"
)

// schemaSQL is embedded so the store can self-bootstrap its tables.
//
//go:embed schema.sql
var schemaSQL string

// MemoryDSN keeps every record for the lifetime of the process only.
// Lead-capture durability is delegated to the notification email
// side-channel, so losing the store on restart is acceptable.
const MemoryDSN = ":memory:"

// Store is the process-wide persistence layer. It is constructed once
// at boot and handed to consumers explicitly; tests build their own
// instances for isolation.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database behind the store. A memory DSN is
// private to its connection, so the pool is pinned to a single
// connection; request volume here never warrants more.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping is used by the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close shuts down the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func newID() string {
	return uuid.New().String()
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// Timestamps are stored as unix nanoseconds so ordering in SQL is
// exact and independent of any text formatting.
func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// CreateUser stores a new user record.
func (s *Store) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	u := models.User{ID: newID(), Username: username, Password: password}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(id, username, password) VALUES(?, ?, ?)`,
		u.ID, u.Username, u.Password,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUser fetches a user by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE id = ?`, id))
}

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`, username))
}

func (s *Store) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// CreateContactSubmission persists a lead. The id and creation
// timestamp are assigned here, never taken from the caller.
func (s *Store) CreateContactSubmission(ctx context.Context, sub models.ContactSubmission) (models.ContactSubmission, error) {
	sub.ID = newID()
	sub.CreatedAt = time.Now().UTC()

	needs, err := json.Marshal(sub.PrimaryNeeds)
	if err != nil {
		return models.ContactSubmission{}, fmt.Errorf("marshal primary needs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions(id, business_name, website, gbp_link, country, city,
			primary_needs, budget_range, timeline, message, locale, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.BusinessName, nullIfEmpty(sub.Website), nullIfEmpty(sub.GBPLink),
		sub.Country, sub.City, string(needs), sub.BudgetRange, sub.Timeline,
		sub.Message, sub.Locale, sub.CreatedAt.UnixNano(),
	)
	if err != nil {
		return models.ContactSubmission{}, fmt.Errorf("insert contact submission: %w", err)
	}
	return sub, nil
}

// GetContactSubmission fetches one lead by id.
func (s *Store) GetContactSubmission(ctx context.Context, id string) (models.ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx, contactSelect+` WHERE id = ?`, id)
	if err != nil {
		return models.ContactSubmission{}, fmt.Errorf("get contact submission: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.ContactSubmission{}, fmt.Errorf("get contact submission: %w", err)
		}
		return models.ContactSubmission{}, sql.ErrNoRows
	}
	return scanContactSubmission(rows)
}

const contactSelect = `SELECT id, business_name, website, gbp_link, country, city,
	primary_needs, budget_range, timeline, message, locale, created_at
	FROM contact_submissions`

// ListContactSubmissions returns every lead, newest first.
func (s *Store) ListContactSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx, contactSelect+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.ContactSubmission
	for rows.Next() {
		sub, err := scanContactSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter contact submissions: %w", err)
	}
	return subs, nil
}

func scanContactSubmission(rows *sql.Rows) (models.ContactSubmission, error) {
	var (
		sub       models.ContactSubmission
		website   sql.NullString
		gbp       sql.NullString
		needsJSON string
		createdAt int64
	)
	if err := rows.Scan(&sub.ID, &sub.BusinessName, &website, &gbp, &sub.Country, &sub.City,
		&needsJSON, &sub.BudgetRange, &sub.Timeline, &sub.Message, &sub.Locale, &createdAt); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("scan contact submission: %w", err)
	}
	sub.CreatedAt = fromUnixNano(createdAt)
	sub.Website = website.String
	sub.GBPLink = gbp.String
	if err := json.Unmarshal([]byte(needsJSON), &sub.PrimaryNeeds); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("decode primary needs: %w", err)
	}
	return sub, nil
}

// CreatePageView persists one tracked navigation.
func (s *Store) CreatePageView(ctx context.Context, pv models.PageView) (models.PageView, error) {
	pv.ID = newID()
	pv.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_views(id, path, locale, referrer, user_agent, session_id, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		pv.ID, pv.Path, pv.Locale, nullIfEmpty(pv.Referrer), nullIfEmpty(pv.UserAgent),
		nullIfEmpty(pv.SessionID), pv.CreatedAt.UnixNano(),
	)
	if err != nil {
		return models.PageView{}, fmt.Errorf("insert page view: %w", err)
	}
	return pv, nil
}

// ListPageViews returns tracked navigations, newest first. A limit of
// zero or less returns everything.
func (s *Store) ListPageViews(ctx context.Context, limit int) ([]models.PageView, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, locale, referrer, user_agent, session_id, created_at
		 FROM page_views ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list page views: %w", err)
	}
	defer rows.Close()

	var views []models.PageView
	for rows.Next() {
		var (
			pv        models.PageView
			referrer  sql.NullString
			userAgent sql.NullString
			sessionID sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&pv.ID, &pv.Path, &pv.Locale, &referrer, &userAgent, &sessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan page view: %w", err)
		}
		pv.CreatedAt = fromUnixNano(createdAt)
		pv.Referrer = referrer.String
		pv.UserAgent = userAgent.String
		pv.SessionID = sessionID.String
		views = append(views, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter page views: %w", err)
	}
	return views, nil
}

// PageViewStats counts page views grouped by (path, locale), sorted by
// count descending.
func (s *Store) PageViewStats(ctx context.Context) ([]models.PageViewStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, locale, COUNT(*) AS views
		 FROM page_views GROUP BY path, locale ORDER BY views DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("page view stats: %w", err)
	}
	defer rows.Close()

	var stats []models.PageViewStat
	for rows.Next() {
		var st models.PageViewStat
		if err := rows.Scan(&st.Path, &st.Locale, &st.Count); err != nil {
			return nil, fmt.Errorf("scan page view stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter page view stats: %w", err)
	}
	return stats, nil
}

// CreateEvent persists one tracked user action.
func (s *Store) CreateEvent(ctx context.Context, ev models.AnalyticsEvent) (models.AnalyticsEvent, error) {
	ev.ID = newID()
	ev.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analytics_events(id, event_type, event_data, path, locale, session_id, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.EventType, nullIfEmpty(ev.EventData), nullIfEmpty(ev.Path),
		nullIfEmpty(ev.Locale), nullIfEmpty(ev.SessionID), ev.CreatedAt.UnixNano(),
	)
	if err != nil {
		return models.AnalyticsEvent{}, fmt.Errorf("insert analytics event: %w", err)
	}
	return ev, nil
}

// ListEvents returns tracked events, newest first, optionally filtered
// by event type.
func (s *Store) ListEvents(ctx context.Context, eventType string, limit int) ([]models.AnalyticsEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, event_type, event_data, path, locale, session_id, created_at
		FROM analytics_events`
	args := []any{}
	if eventType != "" {
		query += ` WHERE event_type = ?`
		args = append(args, eventType)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.AnalyticsEvent
	for rows.Next() {
		var (
			ev        models.AnalyticsEvent
			eventData sql.NullString
			path      sql.NullString
			locale    sql.NullString
			sessionID sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&ev.ID, &ev.EventType, &eventData, &path, &locale, &sessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.CreatedAt = fromUnixNano(createdAt)
		ev.EventData = eventData.String
		ev.Path = path.String
		ev.Locale = locale.String
		ev.SessionID = sessionID.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter events: %w", err)
	}
	return events, nil
}

// EventStats counts events grouped by event type, sorted by count
// descending.
func (s *Store) EventStats(ctx context.Context) ([]models.EventStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_type, COUNT(*) AS total
		 FROM analytics_events GROUP BY event_type ORDER BY total DESC, event_type`)
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}
	defer rows.Close()

	var stats []models.EventStat
	for rows.Next() {
		var st models.EventStat
		if err := rows.Scan(&st.EventType, &st.Count); err != nil {
			return nil, fmt.Errorf("scan event stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iter event stats: %w", err)
	}
	return stats, nil
}
