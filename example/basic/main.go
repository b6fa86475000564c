package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/lexent"
	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/helper"
)

// Extracts legal provisions and dates from one PDF with the rule-based tagger
// and prints every registry with its mentions in context.
//
//	go run ./example/basic report.pdf
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <file.pdf>", os.Args[0])
	}
	pdfPath := os.Args[1]

	config, err := helper.NewConfiguration()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Without extractors the rule-based tagger is used
	l := lexent.NewLexent(config)
	defer l.Close()
	l.LayoutCacheDir = "layout_cache"

	fmt.Println("Processing document...")
	result, err := l.ProcessDocument(context.Background(), pdfPath)
	if err != nil {
		log.Fatalf("Failed to process document: %v", err)
	}
	fmt.Printf("Processed %d segments, %d mentions, %d entity boxes\n", result.Segments, result.Mentions, len(result.Entities))

	for _, label := range l.Labels() {
		fmt.Printf("\n=== %s ===\n", label)
		fmt.Print(registry.Format(l.Registry(label)))
	}

	if err := l.SaveRegistries("registries"); err != nil {
		log.Fatalf("Failed to save registries: %v", err)
	}
	fmt.Println("\nRegistries saved to ./registries")
}
