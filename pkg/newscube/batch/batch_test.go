package batch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/internalerr"
	"github.com/cognicore/newscube/pkg/newscube/source"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

func testTags() []taxonomy.Tag {
	tags := []taxonomy.Tag{
		{Name: "Acquisition", Category: "Event", Domain: "Business",
			Keywords: []string{"acquisition", "merger"}},
		{Name: "FDA Approval", Category: "Event", Domain: "Regulatory",
			Keywords: []string{"fda approval"}},
	}
	for i, t := range tags {
		tags[i] = t.Normalize()
	}
	return tags
}

func testRegistry() *entity.Registry {
	return entity.NewRegistry([]entity.RegistryEntry{
		{Name: "Pfizer"},
		{Name: "Reata Pharmaceuticals"},
	})
}

func testDocs(n int) []source.Document {
	docs := make([]source.Document, 0, n)
	for i := 0; i < n; i++ {
		doc := source.Document{
			ID:       fmt.Sprintf("doc-%03d", i),
			Date:     fmt.Sprintf("2023-03-%02d", i%28+1),
			Source:   "BioPharma Dive",
			Headline: "Industry update",
			Body:     "General market commentary.",
		}
		switch i % 3 {
		case 0:
			doc.Headline = "Pfizer acquisition closes"
			doc.Body = "Pfizer completed the acquisition."
			doc.KeywordHints = "Pfizer; acquisition"
		case 1:
			doc.Body = "Reata Pharmaceuticals won fda approval."
			doc.KeywordHints = "Reata Pharmaceuticals"
		}
		docs = append(docs, doc)
	}
	return docs
}

func TestRunFactPerDocument(t *testing.T) {
	proc := NewProcessor(Config{BatchSize: 10}, testTags(), testRegistry())

	docs := testDocs(25)
	result, err := proc.Run(context.Background(), source.NewSliceReader(docs))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tables.Facts) != len(docs) {
		t.Errorf("facts = %d, want one per document (%d)", len(result.Tables.Facts), len(docs))
	}
	if result.Summary.RowsRead != len(docs) {
		t.Errorf("rows read = %d, want %d", result.Summary.RowsRead, len(docs))
	}
	if result.Summary.Batches != 3 {
		t.Errorf("batches = %d, want 3", result.Summary.Batches)
	}
	if result.Summary.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestRunBatchSizeDoesNotAffectOutput(t *testing.T) {
	docs := testDocs(30)

	var outputs []*Result
	for _, size := range []int{1, 7, 30, 100} {
		proc := NewProcessor(Config{BatchSize: size}, testTags(), testRegistry())
		result, err := proc.Run(context.Background(), source.NewSliceReader(docs))
		if err != nil {
			t.Fatalf("batch size %d: %v", size, err)
		}
		outputs = append(outputs, result)
	}

	for i := 1; i < len(outputs); i++ {
		if !reflect.DeepEqual(outputs[0].Tables, outputs[i].Tables) {
			t.Errorf("tables differ between batch sizes %d and %d", 1, i)
		}
		if !reflect.DeepEqual(outputs[0].Rejected, outputs[i].Rejected) {
			t.Errorf("rejected reports differ between batch sizes")
		}
	}
}

func TestRunEmptySource(t *testing.T) {
	proc := NewProcessor(Config{}, testTags(), nil)

	_, err := proc.Run(context.Background(), source.NewSliceReader(nil))
	if !errors.Is(err, internalerr.ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	proc := NewProcessor(Config{}, testTags(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := proc.Run(ctx, source.NewSliceReader(testDocs(5)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunAccumulatesAcrossBatches(t *testing.T) {
	// Batch size 1 forces every accumulator to merge across batches.
	proc := NewProcessor(Config{BatchSize: 1}, testTags(), testRegistry())

	result, err := proc.Run(context.Background(), source.NewSliceReader(testDocs(6)))
	if err != nil {
		t.Fatal(err)
	}

	// One source, repeated in every document.
	if len(result.Tables.Sources) != 1 {
		t.Errorf("sources = %d, want 1", len(result.Tables.Sources))
	}
	// Pfizer and Reata Pharmaceuticals, each extracted in multiple batches.
	if len(result.Tables.Entities) != 2 {
		t.Errorf("entities = %d, want 2: %v", len(result.Tables.Entities), result.Tables.Entities)
	}
	// Six documents across six distinct dates.
	if len(result.Tables.Time) != 6 {
		t.Errorf("time rows = %d, want 6", len(result.Tables.Time))
	}
}
