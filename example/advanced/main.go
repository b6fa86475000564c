package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/lexent"
	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/core/pipeline"
	"github.com/siherrmann/lexent/helper"
)

// Extracts persons, organizations and locations from several PDFs with the
// hugot NER model, the LLM extractor and the rule-based tagger, canonicalizes
// every registry with Ollama and stores the result in Postgres.
//
//	go run ./example/advanced a.pdf b.pdf
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <file.pdf>...", os.Args[0])
	}
	pdfPaths := os.Args[1:]

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	config, err := helper.NewConfiguration()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	ner, err := pipeline.NewNERExtractor(pipeline.DefaultNERModel)
	if err != nil {
		log.Fatalf("Failed to create NER extractor: %v", err)
	}
	defer ner.Close()

	ollama := oracle.NewOllama(config.OllamaHost, config.OllamaModel)
	llm := pipeline.NewLLMExtractor(ollama, oracle.Options{Model: config.OllamaModel}, nil)

	l := lexent.NewLexent(config, ner, llm, pipeline.NewRuleExtractor())
	defer l.Close()
	l.LayoutCacheDir = "layout_cache"
	l.UseOllama()

	if err := l.ConnectDatabase(dbConfig); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	ctx := context.Background()

	fmt.Println("=== Processing Documents ===")
	results, err := l.ProcessDocuments(ctx, pdfPaths)
	if err != nil {
		log.Printf("Some documents failed: %v", err)
	}
	for i, result := range results {
		if result == nil {
			continue
		}
		fmt.Printf("%s: %d segments, %d mentions, %d entity boxes, %d without geometry\n",
			pdfPaths[i], result.Segments, result.Mentions, len(result.Entities), result.GeometryMisses)
	}

	fmt.Println("\n=== Canonicalizing ===")
	names, err := l.Canonicalize(ctx)
	if err != nil {
		log.Fatalf("Failed to canonicalize: %v", err)
	}
	for _, label := range l.Labels() {
		fmt.Printf("%s (%d):\n", label, len(names[label]))
		for _, name := range names[label] {
			fmt.Printf("  - %s\n", name)
		}
	}

	if err := l.PersistRegistries(ctx); err != nil {
		log.Fatalf("Failed to persist registries: %v", err)
	}

	// Query the stored entities
	fmt.Println("\n=== Stored Entities Matching 'Court' ===")
	entities, err := l.Entities.SelectEntitiesBySearch("Court", nil, 10)
	if err != nil {
		log.Fatalf("Failed to search entities: %v", err)
	}
	for _, entity := range entities {
		full, err := l.Entities.SelectEntityByName(entity.Label, entity.Name)
		if err != nil {
			log.Fatalf("Failed to select entity: %v", err)
		}
		fmt.Printf("[%s] %s: %d mentions\n", full.Label, full.Name, len(full.Mentions))
	}
}
