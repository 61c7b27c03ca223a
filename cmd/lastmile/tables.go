package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the loaded tables and their record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		rows := pterm.TableData{{"Table", "Records", "Columns"}}
		for _, name := range ds.TableNames() {
			table, _ := ds.Table(name)
			rows = append(rows, []string{
				name,
				pterm.Sprintf("%d", len(table.Records)),
				pterm.Sprintf("%d", len(table.Columns())),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}
