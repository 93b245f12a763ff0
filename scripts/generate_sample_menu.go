//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"whatsapp-order-bot/internal/model"
)

// generate_sample_menu writes a sample restaurant document as data/menus/menu.json
// and a gzipped copy, for use with MENU_FILE or upload to the S3 menu prefix.
func main() {
	dataDir := "data/menus"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	restaurant := model.Restaurant{
		Name:    "Demo Food Place",
		Address: "123 Main St",
		Menu: []model.MenuItem{
			{ID: 1, Name: "Parota", Price: 30},
			{ID: 2, Name: "Chicken Biryani", Price: 120},
			{ID: 3, Name: "Veg Fried Rice", Price: 90},
			{ID: 4, Name: "Chicken 65", Price: 150},
			{ID: 5, Name: "Masala Tea", Price: 15},
		},
	}

	payload, err := json.MarshalIndent(restaurant, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode menu: %v", err)
	}

	plain := filepath.Join(dataDir, "menu.json")
	if err := os.WriteFile(plain, payload, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", plain, err)
	}
	fmt.Printf("Created %s with %d items\n", plain, len(restaurant.Menu))

	compressed := filepath.Join(dataDir, "menu.json.gz")
	if err := writeGzip(compressed, payload); err != nil {
		log.Fatalf("Failed to write %s: %v", compressed, err)
	}
	fmt.Printf("Created %s\n", compressed)

	fmt.Println("\nRun the bot with:")
	fmt.Printf("  MENU_FILE=%s go run ./cmd/api\n", plain)
}

func writeGzip(filePath string, payload []byte) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(payload); err != nil {
		return fmt.Errorf("failed to write menu: %w", err)
	}
	return gzipWriter.Close()
}
