package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/cognicore/newscube/pkg/newscube/batch"
	"github.com/cognicore/newscube/pkg/newscube/config"
	"github.com/cognicore/newscube/pkg/newscube/source"
	"github.com/cognicore/newscube/pkg/newscube/store"
	"github.com/cognicore/newscube/pkg/newscube/store/csvdir"
	"github.com/cognicore/newscube/pkg/newscube/store/sqlite"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "Input articles CSV (required)")
		taxonomyPath = flag.String("taxonomy", "", "Tag taxonomy YAML (required)")
		registryPath = flag.String("registry", "", "Known-entity registry CSV (optional)")
		configPath   = flag.String("config", "", "Pipeline config YAML (optional)")
		outDir       = flag.String("out", "cube_output", "Output directory for table CSVs")
		dbPath       = flag.String("db", "", "Also write tables to this SQLite database (optional)")
		batchSize    = flag.Int("batch", 0, "Batch size override")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("--input required")
	}
	if *taxonomyPath == "" {
		log.Fatal("--taxonomy required")
	}

	ctx := context.Background()

	// Load configuration components
	loader := config.Loader{
		TaxonomyPath: *taxonomyPath,
		RegistryPath: *registryPath,
		PipelinePath: *configPath,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if *batchSize > 0 {
		components.Pipeline.BatchSize = *batchSize
	}

	// Open input
	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatal("Failed to open input:", err)
	}
	defer f.Close()

	mapping := source.DefaultMapping()
	applyColumnOverrides(&mapping, components.Pipeline.Columns)
	reader, err := source.NewCSVReader(f, mapping)
	if err != nil {
		log.Fatal("Failed to read input:", err)
	}

	// Run the transformation
	proc := batch.NewProcessor(batch.Config{BatchSize: components.Pipeline.BatchSize},
		components.Tags, components.Registry)
	result, err := proc.Run(ctx, reader)
	if err != nil {
		log.Fatal("Transformation failed:", err)
	}

	// Write outputs
	writers := make([]store.Writer, 0, 2)
	csvw, err := csvdir.New(*outDir)
	if err != nil {
		log.Fatal("Failed to create output directory:", err)
	}
	writers = append(writers, csvw)

	if *dbPath != "" {
		dbw, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		defer dbw.Close()
		writers = append(writers, dbw)
	}

	for _, w := range writers {
		if err := w.WriteTables(ctx, result.Tables); err != nil {
			log.Fatal("Failed to write tables:", err)
		}
		if err := w.WriteRejected(ctx, result.Rejected); err != nil {
			log.Fatal("Failed to write rejected-entity report:", err)
		}
	}

	s := result.Summary
	log.Printf("run %s complete in %s", s.RunID, s.Elapsed.Round(1e6))
	log.Printf("  documents: %d read, %d skipped, %d batches", s.RowsRead, s.RowsSkipped, s.Batches)
	log.Printf("  tables: %d facts, %d time, %d sources, %d tags, %d entities",
		s.Facts, s.TimeRows, s.SourceRows, s.TagRows, s.EntityRows)
	log.Printf("  links: %d tag, %d entity (%d entities unresolved)",
		s.TagLinks, s.EntityLinks, s.Unresolved.Entities)
	if s.Rejected > 0 {
		log.Printf("  rejected entity candidates: %d distinct", s.Rejected)
	}
	if len(s.Unresolved.EntitySample) > 0 {
		log.Printf("  unresolved sample: %v", s.Unresolved.EntitySample)
	}
}

// applyColumnOverrides replaces default column names with configured ones.
func applyColumnOverrides(m *source.Mapping, cols map[string]string) {
	for key, name := range cols {
		switch key {
		case "id":
			m.ID = name
		case "date":
			m.Date = name
		case "source":
			m.Source = name
		case "headline":
			m.Headline = name
		case "body":
			m.Body = name
		case "consolidated":
			m.Consolidated = name
		case "keyword_hints":
			m.KeywordHints = name
		case "news_link":
			m.NewsLink = name
		case "cleaned_text":
			m.CleanedText = name
		case "sentiment":
			m.Sentiment = name
		case "qc_status":
			m.QCStatus = name
		default:
			log.Printf("ignoring unknown column override %q", key)
		}
	}
}
