// Command lastmile answers natural-language questions about delivery
// performance from a folder of CSV exports.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
