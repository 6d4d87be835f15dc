package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/way-po-int/subtitle-extractor/internal/config"

	"github.com/invopop/jsonschema"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&config.Config{})
	schema.Title = "subtitle-extractor configuration"
	schema.Description = "Schema for the YAML file passed with --config."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile("subtitle-extractor.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at subtitle-extractor.schema.json")
}
