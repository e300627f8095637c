package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/schema"
)

func testTables() *schema.Tables {
	sentiment := 0.8
	return &schema.Tables{
		Facts: []schema.FactRow{{
			FactID: schema.FactIDBase, DocumentID: "doc-1", DateKey: 20230315, SourceKey: 1,
			Year: 2023, Quarter: "Q1", Month: "March", DateString: "2023-03-15",
			SourceName: "STAT", SourceType: "News", Headline: "Results",
			Sentiment: &sentiment, DocumentCount: 1, TagCount: 1, HasKeyEvent: "Yes",
		}},
		Time: []schema.TimeRow{{
			DateKey: 20230315, Year: 2023, Quarter: "Q1", Month: "March",
			MonthNumber: 3, Day: 15, DayOfWeek: "Wednesday", WeekOfYear: 11,
			DateString: "2023-03-15",
		}},
		Sources:  []schema.SourceRow{{SourceKey: 1, SourceName: "STAT", SourceType: "News"}},
		Tags:     []schema.TagRow{{TagKey: schema.TagKeyBase, TagName: "Acquisition", TagCategory: "Event", TagDomain: "Business"}},
		Entities: []schema.EntityRow{{EntityKey: schema.EntityKeyBase, EntityName: "Pfizer", EntityType: "Company", EntityDomain: "Healthcare"}},
		TagBridge: []schema.TagBridgeRow{
			{FactID: schema.FactIDBase, TagKey: schema.TagKeyBase, Confidence: 0.9},
		},
		EntityBridge: []schema.EntityBridgeRow{
			{FactID: schema.FactIDBase, EntityKey: schema.EntityKeyBase, Mentions: 2},
		},
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestWriteAndQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cube.db")

	w, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.WriteTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRejected(ctx, []entity.RejectedEntity{
		{Name: "Oncology", Count: 3, Reason: entity.RejectReason},
	}); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for table, want := range map[string]int{
		"fact_document":      1,
		"dim_time":           1,
		"dim_source":         1,
		"dim_tag":            1,
		"dim_entity":         1,
		"bridge_fact_tag":    1,
		"bridge_fact_entity": 1,
		"rejected_entities":  1,
	} {
		if got := countRows(t, db, table); got != want {
			t.Errorf("%s: %d rows, want %d", table, got, want)
		}
	}

	// The fact row joins back to its dimensions.
	var headline, tagName string
	err = db.QueryRow(`
		SELECT f.headline, dt.tag_name
		FROM fact_document f
		JOIN bridge_fact_tag b ON b.fact_id = f.fact_id
		JOIN dim_tag dt ON dt.tag_key = b.tag_key
	`).Scan(&headline, &tagName)
	if err != nil {
		t.Fatal(err)
	}
	if headline != "Results" || tagName != "Acquisition" {
		t.Errorf("join returned %q/%q", headline, tagName)
	}
}

func TestRewriteReplacesContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cube.db")

	w, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.WriteTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}
	// A second write must replace, not append.
	if err := w.WriteTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if got := countRows(t, db, "fact_document"); got != 1 {
		t.Errorf("fact_document: %d rows after rewrite, want 1", got)
	}
}
