package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/newscube/pkg/newscube/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const taxonomyYAML = `tags:
  - name: Acquisition
    category: Event
    domain: Business
    keywords: [acquisition, merger, buyout]
  - name: Gene Therapy
    category: Therapy
    keywords: [gene therapy]
`

func TestLoadTaxonomy(t *testing.T) {
	path := writeFile(t, "taxonomy.yaml", taxonomyYAML)

	tax, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tax.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tax.Tags))
	}
	if tax.Tags[0].Name != "Acquisition" || tax.Tags[0].Category != "Event" {
		t.Errorf("unexpected first tag: %+v", tax.Tags[0])
	}
	if len(tax.Tags[0].Keywords) != 3 {
		t.Errorf("keywords = %v", tax.Tags[0].Keywords)
	}
}

func TestLoadTaxonomyUnnamedTag(t *testing.T) {
	path := writeFile(t, "taxonomy.yaml", "tags:\n  - category: Event\n")

	_, err := LoadTaxonomy(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadRegistry(t *testing.T) {
	path := writeFile(t, "registry.csv",
		"Company_Name,Entity_Type\nPfizer,Company\nNIH,Organization\n,\n")

	entries, err := LoadRegistry(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[1].Name != "NIH" || entries[1].Type != "Organization" {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
}

func TestLoadRegistryMissingNameColumn(t *testing.T) {
	path := writeFile(t, "registry.csv", "Name,Type\nPfizer,Company\n")

	_, err := LoadRegistry(path)
	if !errors.Is(err, internalerr.ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestLoaderDefaults(t *testing.T) {
	path := writeFile(t, "taxonomy.yaml", taxonomyYAML)

	loader := Loader{TaxonomyPath: path}
	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if comp.Pipeline.BatchSize == 0 {
		t.Error("batch size should default, not stay zero")
	}
	if comp.Registry == nil || comp.Registry.Len() != 0 {
		t.Errorf("expected empty registry, got %v", comp.Registry)
	}
	// Missing category/domain pick up defaults.
	if comp.Tags[1].Domain != "General" {
		t.Errorf("domain = %q, want General", comp.Tags[1].Domain)
	}
}

func TestLoaderMissingFilesDegrade(t *testing.T) {
	loader := Loader{
		TaxonomyPath: filepath.Join(t.TempDir(), "no-such-taxonomy.yaml"),
		RegistryPath: filepath.Join(t.TempDir(), "no-such-registry.csv"),
	}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("missing optional files should degrade, got %v", err)
	}
	if len(comp.Tags) != 0 {
		t.Errorf("tags = %v, want none", comp.Tags)
	}
	if comp.Registry.Len() != 0 {
		t.Errorf("registry should be empty")
	}
}

func TestLoaderIndividualSplit(t *testing.T) {
	yaml := `tags:
  - name: Key Companies
    category: Entity
    domain: Business
    individually: true
    keywords: [pfizer, moderna, biontech]
`
	path := writeFile(t, "taxonomy.yaml", yaml)

	loader := Loader{TaxonomyPath: path}
	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	// The grouped entry splits into one tag per keyword plus the name
	// keyword itself.
	if len(comp.Tags) != 4 {
		t.Fatalf("expected 4 split tags, got %d: %v", len(comp.Tags), comp.Tags)
	}
	for _, tag := range comp.Tags {
		if len(tag.Keywords) != 1 {
			t.Errorf("split tag %q keywords = %v, want exactly 1", tag.Name, tag.Keywords)
		}
		if tag.Category != "Entity" {
			t.Errorf("split tag %q category = %q", tag.Name, tag.Category)
		}
	}
}
