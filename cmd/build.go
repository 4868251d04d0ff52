package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planner/config"
	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/infra/taskfile"
	"github.com/kilianp07/planner/pkg/export"
)

var (
	buildTasks    string
	buildStrategy string
	buildFormat   string
	buildWatch    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a schedule once from a tasks file and print it",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildTasks, "tasks", "t", "", "tasks file (defaults to service.tasks_file)")
	buildCmd.Flags().StringVarP(&buildStrategy, "strategy", "s", "", "scheduling strategy overriding planner.algorithm")
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "text", "output format: text, json or csv")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild each time the tasks file changes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	path := buildTasks
	if path == "" {
		path = cfg.Service.TasksFile
	}
	if path == "" {
		return fmt.Errorf("no tasks file: use --tasks or service.tasks_file")
	}
	if buildStrategy != "" {
		cfg.Planner.Algorithm = buildStrategy
	}
	out := cmd.OutOrStdout()
	if err := buildOnce(cmd, cfg.Planner, path); err != nil || !buildWatch {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(out, "watching %s\n", path)
	return taskfile.Watch(ctx, path, func() {
		if err := buildOnce(cmd, cfg.Planner, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "build: %v\n", err)
		}
	})
}

func buildOnce(cmd *cobra.Command, cfg model.UserConfig, path string) error {
	log := logger.NewZerologLoggerWithWriter("build", cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"))
	m, err := planner.NewManager(cfg, planner.WithLogger(log))
	if err != nil {
		return err
	}
	specs, err := taskfile.Load(path, m.Now())
	if err != nil {
		return err
	}
	in := make([]planner.TaskSpec, 0, len(specs))
	for _, s := range specs {
		in = append(in, planner.TaskSpec{Name: s.Name, Hours: s.Hours, Due: s.Due})
	}
	if _, err := m.ImportTasks(in); err != nil {
		return err
	}
	m.BuildSchedule()

	out := cmd.OutOrStdout()
	if buildFormat == "text" {
		printSchedule(out, m.Snapshot())
		return nil
	}
	return export.Write(out, buildFormat, m.Snapshot())
}
