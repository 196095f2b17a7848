// Command facio renders invoices, stamps paid PDFs and manages the local
// client register from the terminal.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(0)

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("facio: %v", err)
	}
}
