// Package sqlite persists a run's star schema into a SQLite database for
// direct SQL querying.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/schema"
	"github.com/cognicore/newscube/pkg/newscube/store"
)

// sqliteStore implements store.Writer backed by SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and the star schema
// initialized. Existing table contents are replaced on the next write, so
// a database file can be reused across runs.
func Open(ctx context.Context, path string) (store.Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	ddl := `
CREATE TABLE IF NOT EXISTS dim_time (
	date_key INTEGER PRIMARY KEY,
	year INTEGER NOT NULL,
	quarter TEXT NOT NULL,
	month TEXT NOT NULL,
	month_number INTEGER NOT NULL,
	day INTEGER NOT NULL,
	day_of_week TEXT NOT NULL,
	week_of_year INTEGER NOT NULL,
	date_string TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_source (
	source_key INTEGER PRIMARY KEY,
	source_name TEXT NOT NULL,
	source_type TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_tag (
	tag_key INTEGER PRIMARY KEY,
	tag_name TEXT NOT NULL,
	tag_category TEXT NOT NULL,
	tag_domain TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_entity (
	entity_key INTEGER PRIMARY KEY,
	entity_name TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_domain TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fact_document (
	fact_id INTEGER PRIMARY KEY,
	document_id TEXT,
	date_key INTEGER NOT NULL,
	source_key INTEGER NOT NULL,
	year INTEGER,
	quarter TEXT,
	month TEXT,
	date_string TEXT,
	source_name TEXT,
	source_type TEXT,
	headline TEXT,
	body_text TEXT,
	news_link TEXT,
	cleaned_text TEXT,
	consolidated_text TEXT,
	matched_keywords TEXT,
	sentiment_score REAL,
	qc_status TEXT,
	document_count INTEGER NOT NULL,
	tag_count INTEGER NOT NULL,
	has_key_event TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bridge_fact_tag (
	fact_id INTEGER NOT NULL,
	tag_key INTEGER NOT NULL,
	match_confidence REAL NOT NULL,
	PRIMARY KEY(fact_id, tag_key),
	FOREIGN KEY(fact_id) REFERENCES fact_document(fact_id),
	FOREIGN KEY(tag_key) REFERENCES dim_tag(tag_key)
);

CREATE TABLE IF NOT EXISTS bridge_fact_entity (
	fact_id INTEGER NOT NULL,
	entity_key INTEGER NOT NULL,
	mention_count INTEGER NOT NULL,
	PRIMARY KEY(fact_id, entity_key),
	FOREIGN KEY(fact_id) REFERENCES fact_document(fact_id),
	FOREIGN KEY(entity_key) REFERENCES dim_entity(entity_key)
);

CREATE TABLE IF NOT EXISTS rejected_entities (
	candidate_name TEXT PRIMARY KEY,
	rejection_reason TEXT NOT NULL,
	occurrence_count INTEGER NOT NULL
);
`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// clearOrder empties tables before a write, bridges first so foreign keys
// hold throughout.
var clearOrder = []string{
	"bridge_fact_tag", "bridge_fact_entity", "fact_document",
	"dim_time", "dim_source", "dim_tag", "dim_entity",
}

// WriteTables replaces the database contents with the run's tables in a
// single transaction.
func (s *sqliteStore) WriteTables(ctx context.Context, t *schema.Tables) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range clearOrder {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	if err := insertTime(ctx, tx, t.Time); err != nil {
		return err
	}
	if err := insertSources(ctx, tx, t.Sources); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, t.Tags); err != nil {
		return err
	}
	if err := insertEntities(ctx, tx, t.Entities); err != nil {
		return err
	}
	if err := insertFacts(ctx, tx, t.Facts); err != nil {
		return err
	}
	if err := insertTagBridge(ctx, tx, t.TagBridge); err != nil {
		return err
	}
	if err := insertEntityBridge(ctx, tx, t.EntityBridge); err != nil {
		return err
	}

	return tx.Commit()
}

// WriteRejected replaces the rejected-entity report.
func (s *sqliteStore) WriteRejected(ctx context.Context, rejected []entity.RejectedEntity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rejected_entities"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO rejected_entities (candidate_name, rejection_reason, occurrence_count) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rejected {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Reason, r.Count); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertTime(ctx context.Context, tx *sql.Tx, rows []schema.TimeRow) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dim_time
		(date_key, year, quarter, month, month_number, day, day_of_week, week_of_year, date_string)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.DateKey, r.Year, r.Quarter, r.Month,
			r.MonthNumber, r.Day, r.DayOfWeek, r.WeekOfYear, r.DateString); err != nil {
			return err
		}
	}
	return nil
}

func insertSources(ctx context.Context, tx *sql.Tx, rows []schema.SourceRow) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO dim_source (source_key, source_name, source_type) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.SourceKey, r.SourceName, r.SourceType); err != nil {
			return err
		}
	}
	return nil
}

func insertTags(ctx context.Context, tx *sql.Tx, rows []schema.TagRow) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO dim_tag (tag_key, tag_name, tag_category, tag_domain) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.TagKey, r.TagName, r.TagCategory, r.TagDomain); err != nil {
			return err
		}
	}
	return nil
}

func insertEntities(ctx context.Context, tx *sql.Tx, rows []schema.EntityRow) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO dim_entity (entity_key, entity_name, entity_type, entity_domain) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.EntityKey, r.EntityName, r.EntityType, r.EntityDomain); err != nil {
			return err
		}
	}
	return nil
}

func insertFacts(ctx context.Context, tx *sql.Tx, rows []schema.FactRow) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fact_document
		(fact_id, document_id, date_key, source_key,
		 year, quarter, month, date_string, source_name, source_type,
		 headline, body_text, news_link, cleaned_text, consolidated_text,
		 matched_keywords, sentiment_score, qc_status,
		 document_count, tag_count, has_key_event)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		var sentiment any
		if r.Sentiment != nil {
			sentiment = *r.Sentiment
		}
		if _, err := stmt.ExecContext(ctx, r.FactID, r.DocumentID, r.DateKey, r.SourceKey,
			r.Year, r.Quarter, r.Month, r.DateString, r.SourceName, r.SourceType,
			r.Headline, r.BodyText, r.NewsLink, r.CleanedText, r.ConsolidatedText,
			r.MatchedKeywords, sentiment, r.QCStatus,
			r.DocumentCount, r.TagCount, r.HasKeyEvent); err != nil {
			return err
		}
	}
	return nil
}

func insertTagBridge(ctx context.Context, tx *sql.Tx, rows []schema.TagBridgeRow) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO bridge_fact_tag (fact_id, tag_key, match_confidence) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.FactID, r.TagKey, r.Confidence); err != nil {
			return err
		}
	}
	return nil
}

func insertEntityBridge(ctx context.Context, tx *sql.Tx, rows []schema.EntityBridgeRow) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO bridge_fact_entity (fact_id, entity_key, mention_count) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.FactID, r.EntityKey, r.Mentions); err != nil {
			return err
		}
	}
	return nil
}
