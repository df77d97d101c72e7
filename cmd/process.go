package main

import (
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/filing-intake/internal/progress"
)

var processFileID string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single uploaded filing end-to-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		if processFileID == "" {
			return eris.New("--file-id is required")
		}

		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		// Mirror progress events to the terminal while the run executes.
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range e.Emitter.Events() {
				prefix := "•"
				switch ev.Severity {
				case progress.SeverityWarning:
					prefix = "!"
				case progress.SeverityError:
					prefix = "✗"
				}
				fmt.Printf("%s %s\n", prefix, ev.Message)
			}
		}()

		recordID, err := e.Pipeline.Run(ctx, processFileID)
		e.Emitter.Close()
		wg.Wait()

		if err != nil {
			return eris.Wrapf(err, "process %s", processFileID)
		}

		fmt.Printf("record %s created\n", recordID)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processFileID, "file-id", "", "identifier of the uploaded file to process")
	rootCmd.AddCommand(processCmd)
}
