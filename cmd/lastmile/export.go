package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lastmile-org/lastmile/store"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Persist the loaded tables to a DuckDB database file",
	Long: `Export writes every loaded table into a local DuckDB database so the
data can be inspected with SQL tools. Existing tables in the database are
replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		path := exportPath
		if path == "" {
			path = cfg.StorePath
		}
		if path == "" {
			path = "lastmile.duckdb"
		}

		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.Persist(ds); err != nil {
			return fmt.Errorf("persist dataset: %w", err)
		}

		for _, name := range ds.TableNames() {
			table, _ := ds.Table(name)
			if len(table.Records) == 0 {
				continue
			}
			n, err := st.Count(name)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			pterm.Printf("  %-20s %d rows\n", name, n)
		}
		pterm.Printf("Exported %d tables to %s\n", ds.Len(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "file", "f", "", "DuckDB database file (defaults to the configured store path)")
}
