// Command sheetsfdw reads spreadsheets and JSON APIs as typed foreign tables.
package main

import (
	"os"

	"sheetsfdw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
