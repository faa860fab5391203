package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fittrackd/fittrackd/internal/services"
)

// Task flag names
const (
	flagTaskLimit = "limit"
	flagMaxCount  = "max-count"
)

// taskOutput represents the filtered output for a task
type taskOutput struct {
	ID      uint   `json:"id"`
	UserID  uint   `json:"user_id"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Created string `json:"created_at"`
}

func init() {
	tasksCmd.AddCommand(listQueuedTasksCmd)
	tasksCmd.AddCommand(processTasksCmd)
	tasksCmd.AddCommand(abortTaskCmd)

	listQueuedTasksCmd.Flags().IntP(flagTaskLimit, "l", 0, "Max number of tasks to list (0 = no limit)")
	processTasksCmd.Flags().IntP(flagMaxCount, "m", services.DefaultMaxCount, "Max number of queued tasks to process")
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage background tasks",
}

var listQueuedTasksCmd = &cobra.Command{
	Use:   "list-queued",
	Short: "List tasks waiting for the worker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, err := cmd.Flags().GetInt(flagTaskLimit)
		if err != nil {
			return fmt.Errorf("error getting limit flag: %w", err)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}

		tasks, err := a.Tasks.ListQueued(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("error listing queued tasks: %w", err)
		}

		output := make([]taskOutput, len(tasks))
		for i, task := range tasks {
			output[i] = taskOutput{
				ID:      task.ID,
				UserID:  task.UserID,
				Kind:    string(task.Kind),
				Status:  task.Status().String(),
				Created: task.CreatedAt.Format("2006-01-02 15:04:05"),
			}
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var abortTaskCmd = &cobra.Command{
	Use:   "abort [task-id]",
	Short: "Abort a queued or ongoing task on behalf of its owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		taskID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid task id: %s", args[0])
		}

		a, err := buildApp()
		if err != nil {
			return err
		}

		ctx := context.Background()
		task, err := a.Tasks.GetByID(ctx, uint(taskID))
		if err != nil {
			return fmt.Errorf("error retrieving task: %w", err)
		}
		aborted, err := a.Tasks.Abort(ctx, task.UserID, task.ID)
		if err != nil {
			return fmt.Errorf("error aborting task: %w", err)
		}
		fmt.Printf("Task %d is now %s\n", aborted.ID, aborted.Status())
		return nil
	},
}

var processTasksCmd = &cobra.Command{
	Use:   "process",
	Short: "Drain a batch of queued tasks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxCount, err := cmd.Flags().GetInt(flagMaxCount)
		if err != nil {
			return fmt.Errorf("error getting max-count flag: %w", err)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}

		processed, err := a.Worker.ProcessQueuedTasks(context.Background(), maxCount)
		if err != nil {
			return fmt.Errorf("error processing queued tasks: %w", err)
		}
		fmt.Printf("Processed %d tasks\n", processed)
		return nil
	},
}
