// Package csvdir writes a run's star schema as one CSV file per table in a
// target directory, matching the layout downstream BI tooling imports from.
package csvdir

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/schema"
	"github.com/cognicore/newscube/pkg/newscube/store"
)

// Output file names, one per table.
const (
	FactFile         = "fact_document.csv"
	TimeFile         = "dim_time.csv"
	SourceFile       = "dim_source.csv"
	TagFile          = "dim_tag.csv"
	EntityFile       = "dim_entity.csv"
	TagBridgeFile    = "bridge_fact_tag.csv"
	EntityBridgeFile = "bridge_fact_entity.csv"
	RejectedFile     = "rejected_entities.csv"
)

type dirWriter struct {
	dir string
}

// New creates a writer rooted at dir, creating the directory if needed.
func New(dir string) (store.Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &dirWriter{dir: dir}, nil
}

func (w *dirWriter) Close() error { return nil }

// WriteTables writes all seven tables. Each file is written whole; a
// failure leaves previously written files in place.
func (w *dirWriter) WriteTables(ctx context.Context, t *schema.Tables) error {
	writes := []struct {
		file string
		fn   func(*csv.Writer) error
	}{
		{FactFile, func(cw *csv.Writer) error { return writeFacts(cw, t.Facts) }},
		{TimeFile, func(cw *csv.Writer) error { return writeTime(cw, t.Time) }},
		{SourceFile, func(cw *csv.Writer) error { return writeSources(cw, t.Sources) }},
		{TagFile, func(cw *csv.Writer) error { return writeTags(cw, t.Tags) }},
		{EntityFile, func(cw *csv.Writer) error { return writeEntities(cw, t.Entities) }},
		{TagBridgeFile, func(cw *csv.Writer) error { return writeTagBridge(cw, t.TagBridge) }},
		{EntityBridgeFile, func(cw *csv.Writer) error { return writeEntityBridge(cw, t.EntityBridge) }},
	}

	for _, wr := range writes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeFile(wr.file, wr.fn); err != nil {
			return fmt.Errorf("write %s: %w", wr.file, err)
		}
	}
	return nil
}

// WriteRejected writes the rejected-entity audit report.
func (w *dirWriter) WriteRejected(ctx context.Context, rejected []entity.RejectedEntity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.writeFile(RejectedFile, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"Candidate_Name", "Rejection_Reason", "Occurrence_Count"}); err != nil {
			return err
		}
		for _, r := range rejected {
			if err := cw.Write([]string{r.Name, r.Reason, strconv.Itoa(r.Count)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *dirWriter) writeFile(name string, fn func(*csv.Writer) error) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := fn(cw); err != nil {
		f.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFacts(cw *csv.Writer, rows []schema.FactRow) error {
	header := []string{
		"Fact_ID", "Document_ID", "Date_Key", "Source_Key",
		"Year", "Quarter", "Month", "Date_String", "Source_Name", "Source_Type",
		"Headline", "Body_Text", "News_Link", "Cleaned_Text", "Consolidated_Text",
		"Matched_Keywords", "Sentiment_Score", "QC_Status",
		"Document_Count", "Tag_Count", "Has_Key_Event",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		sentiment := ""
		if r.Sentiment != nil {
			sentiment = strconv.FormatFloat(*r.Sentiment, 'f', -1, 64)
		}
		rec := []string{
			strconv.Itoa(r.FactID), r.DocumentID, strconv.Itoa(r.DateKey), strconv.Itoa(r.SourceKey),
			strconv.Itoa(r.Year), r.Quarter, r.Month, r.DateString, r.SourceName, r.SourceType,
			r.Headline, r.BodyText, r.NewsLink, r.CleanedText, r.ConsolidatedText,
			r.MatchedKeywords, sentiment, r.QCStatus,
			strconv.Itoa(r.DocumentCount), strconv.Itoa(r.TagCount), r.HasKeyEvent,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeTime(cw *csv.Writer, rows []schema.TimeRow) error {
	header := []string{
		"Date_Key", "Year", "Quarter", "Month", "Month_Number",
		"Day", "Day_Of_Week", "Week_Of_Year", "Date_String",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.DateKey), strconv.Itoa(r.Year), r.Quarter, r.Month,
			strconv.Itoa(r.MonthNumber), strconv.Itoa(r.Day), r.DayOfWeek,
			strconv.Itoa(r.WeekOfYear), r.DateString,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSources(cw *csv.Writer, rows []schema.SourceRow) error {
	if err := cw.Write([]string{"Source_Key", "Source_Name", "Source_Type"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{strconv.Itoa(r.SourceKey), r.SourceName, r.SourceType}); err != nil {
			return err
		}
	}
	return nil
}

func writeTags(cw *csv.Writer, rows []schema.TagRow) error {
	if err := cw.Write([]string{"Tag_Key", "Tag_Name", "Tag_Category", "Tag_Domain"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{strconv.Itoa(r.TagKey), r.TagName, r.TagCategory, r.TagDomain}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeEntities(cw *csv.Writer, rows []schema.EntityRow) error {
	if err := cw.Write([]string{"Entity_Key", "Entity_Name", "Entity_Type", "Entity_Domain"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{strconv.Itoa(r.EntityKey), r.EntityName, r.EntityType, r.EntityDomain}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeTagBridge(cw *csv.Writer, rows []schema.TagBridgeRow) error {
	if err := cw.Write([]string{"Fact_ID", "Tag_Key", "Match_Confidence"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.FactID), strconv.Itoa(r.TagKey),
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeEntityBridge(cw *csv.Writer, rows []schema.EntityBridgeRow) error {
	if err := cw.Write([]string{"Fact_ID", "Entity_Key", "Mention_Count"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{strconv.Itoa(r.FactID), strconv.Itoa(r.EntityKey), strconv.Itoa(r.Mentions)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
