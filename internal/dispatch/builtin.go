package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nerrad567/homebot/internal/command"
	"github.com/nerrad567/homebot/internal/executor"
	"github.com/nerrad567/homebot/internal/history"
)

// Builtin handler identifiers. Actions referencing these run
// in-process instead of shelling out to a script.
const (
	HandlerHelp   = "builtin.help"
	HandlerStatus = "builtin.status"
)

// HelpHandler lists registered commands grouped by category.
func HelpHandler(registry *command.Registry) executor.HandlerFunc {
	return func(context.Context, string) executor.Result {
		byCategory := make(map[string][]*command.Action)
		for _, action := range registry.Actions() {
			byCategory[action.Category] = append(byCategory[action.Category], action)
		}

		categories := make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		var b strings.Builder
		b.WriteString("available commands:\n")
		for _, category := range categories {
			fmt.Fprintf(&b, "\n%s:\n", category)
			for _, action := range byCategory[category] {
				fmt.Fprintf(&b, "  %s - %s\n", action.Name(), action.Description)
			}
		}
		b.WriteString("\nsuffix a command with a number to delay it in minutes, or 'at HH:MM' to schedule it")

		return executor.Result{OK: true, Message: b.String()}
	}
}

// StatusHandler reports uptime, queue depth, and recent activity.
func StatusHandler(queue *executor.Queue, log *history.Log, startedAt time.Time) executor.HandlerFunc {
	return func(context.Context, string) executor.Result {
		var b strings.Builder
		fmt.Fprintf(&b, "uptime: %s\n", time.Since(startedAt).Round(time.Second))
		fmt.Fprintf(&b, "queued commands: %d\n", queue.Depth())
		fmt.Fprintf(&b, "commands recorded: %d\n", log.Len())

		recent := log.Recent(5)
		if len(recent) > 0 {
			b.WriteString("recent:\n")
			for _, e := range recent {
				fmt.Fprintf(&b, "  %s %s %s\n",
					e.Timestamp.Format("15:04:05"), e.Status, e.CommandText)
			}
		}

		return executor.Result{OK: true, Message: strings.TrimRight(b.String(), "\n")}
	}
}
