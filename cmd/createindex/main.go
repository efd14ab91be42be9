// Command createindex provisions the TwelveLabs index the video pipeline
// writes to. Run once per environment, then set TWELVELABS_INDEX_ID.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"github.com/JacobChan182/NoMoreTears/internal/twelvelabs"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	name := flag.String("name", "lectures", "name for the new index")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if cfg.TwelveLabs.APIKey == "" {
		panic("TWELVELABS_API_KEY is not set")
	}

	client := twelvelabs.NewClient(cfg.TwelveLabs)

	fmt.Printf("Creating index %q...\n", *name)
	indexID, err := client.CreateIndex(context.Background(), *name)
	if err != nil {
		panic(fmt.Sprintf("Failed to create index: %v", err))
	}

	fmt.Printf("✅ Index created: %s\n", indexID)
	fmt.Println("Set TWELVELABS_INDEX_ID to this id and restart the server.")
}
