package normalize

import "testing"

func TestEntityNameAliasCollapse(t *testing.T) {
	// All surface variants of one organization must fold to one identity.
	variants := []string{
		"AstraZeneca",
		"Astra Zeneca",
		"AstraZeneca Inc",
		"AstraZeneca Inc.",
		"astrazeneca plc",
		"Astra-Zeneca",
	}
	for _, v := range variants {
		if got := EntityName(v); got != "astrazeneca" {
			t.Errorf("EntityName(%q) = %q, want %q", v, got, "astrazeneca")
		}
	}
}

func TestEntityNameAmpersandFolding(t *testing.T) {
	a := EntityName("Johnson & Johnson")
	b := EntityName("Johnson and Johnson")
	if a != b {
		t.Errorf("ampersand form %q != spelled form %q", a, b)
	}
	if a != "johnsonandjohnson" {
		t.Errorf("EntityName = %q, want %q", a, "johnsonandjohnson")
	}
}

func TestEntityNameStackedSuffixes(t *testing.T) {
	// A legal form after a sector suffix must not block the sector strip.
	a := EntityName("Reata Pharmaceuticals, Inc.")
	b := EntityName("Reata Pharmaceuticals")
	if a != b {
		t.Errorf("EntityName(%q) = %q, but EntityName(%q) = %q",
			"Reata Pharmaceuticals, Inc.", a, "Reata Pharmaceuticals", b)
	}
	if a != "reata" {
		t.Errorf("EntityName = %q, want %q", a, "reata")
	}
}

func TestEntityNameIdempotent(t *testing.T) {
	names := []string{
		"Gilead Sciences, Inc.",
		"Johnson & Johnson",
		"Novo Nordisk A/S",
		"BioMarin Pharmaceutical Inc.",
	}
	for _, name := range names {
		once := EntityName(name)
		twice := EntityName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", name, once, twice)
		}
	}
}

func TestEntityNameDistinctEntitiesStayDistinct(t *testing.T) {
	if EntityName("Pfizer") == EntityName("Moderna") {
		t.Error("distinct organizations folded to the same identity")
	}
}

func TestCoreWord(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Reata Pharmaceuticals", "reata"},
		{"Reata", "reata"},
		{"Gilead Sciences", "gilead"},
		{"Pfizer Inc.", "pfizer"},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := CoreWord(c.in); got != c.want {
			t.Errorf("CoreWord(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHasCorporateSuffix(t *testing.T) {
	if !HasCorporateSuffix("acme therapeutics") {
		t.Error("expected suffix hit for 'acme therapeutics'")
	}
	if HasCorporateSuffix("breakthrough") {
		t.Error("unexpected suffix hit for 'breakthrough'")
	}
}
