package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planner/infra/taskfile"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks <file>",
	Short: "Validate a tasks file and list its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasks,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	specs, err := taskfile.Load(args[0], time.Now())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var total float64
	for i, s := range specs {
		fmt.Fprintf(out, "%3d  %-24s %5.1fh  due %s\n", i+1, s.Name, s.Hours, s.Due.Format(taskfile.DateLayout))
		total += s.Hours
	}
	fmt.Fprintf(out, "%d tasks, %.1fh total\n", len(specs), total)
	return nil
}
