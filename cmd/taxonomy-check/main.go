// taxonomy-check validates a tag taxonomy file and prints the resolved tag
// list as it would enter the tag dimension, including individually-split
// tags and their key assignments.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/newscube/pkg/newscube/config"
	"github.com/cognicore/newscube/pkg/newscube/match"
	"github.com/cognicore/newscube/pkg/newscube/schema"
)

func main() {
	taxonomyPath := flag.String("taxonomy", "", "Tag taxonomy YAML (required)")
	verbose := flag.Bool("v", false, "Print keywords per tag")
	flag.Parse()

	if *taxonomyPath == "" {
		log.Fatal("--taxonomy required")
	}

	loader := config.Loader{TaxonomyPath: *taxonomyPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load taxonomy:", err)
	}

	// Compiling the matcher catches keyword sets that would fail at run
	// time, not just YAML shape problems.
	match.NewMatcher(components.Tags)

	fmt.Printf("%d tags\n", len(components.Tags))
	for i, t := range components.Tags {
		fmt.Printf("%4d  %-40s %-12s %s\n", schema.TagKeyBase+i, t.Name, t.Category, t.Domain)
		if *verbose {
			for _, kw := range t.Keywords {
				fmt.Printf("      - %s\n", kw)
			}
		}
	}
}
