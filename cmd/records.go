package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/internal/store"
)

var (
	recordsType   string
	recordsFileID string
	recordsLimit  int
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored extraction records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListRecords(ctx, store.RecordFilter{
			DocumentType: model.DocumentType(recordsType),
			FileID:       recordsFileID,
			Limit:        recordsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list records")
		}

		if len(records) == 0 {
			fmt.Println("no records")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %-5s  %-30s  %s\n",
				rec.ID, rec.Record.DocumentType, rec.Record.FileName,
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetRecord(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "get record %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteRecord(ctx, args[0]); err != nil {
			return eris.Wrapf(err, "delete record %s", args[0])
		}
		fmt.Printf("record %s deleted\n", args[0])
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}
		fmt.Println("schema up to date")
		return nil
	},
}

func init() {
	recordsListCmd.Flags().StringVar(&recordsType, "type", "", "filter by document type (10-k, 10-q, 8-k)")
	recordsListCmd.Flags().StringVar(&recordsFileID, "file-id", "", "filter by source file id")
	recordsListCmd.Flags().IntVar(&recordsLimit, "limit", 50, "maximum records to list")

	recordsCmd.AddCommand(recordsListCmd, recordsShowCmd, recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd, migrateCmd)
}
