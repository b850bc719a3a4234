package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/taskflow/internal/api"
	"github.com/hpungsan/taskflow/internal/browser"
	"github.com/hpungsan/taskflow/internal/calendar"
	"github.com/hpungsan/taskflow/internal/chat"
	"github.com/hpungsan/taskflow/internal/config"
	"github.com/hpungsan/taskflow/internal/db"
	"github.com/hpungsan/taskflow/internal/errors"
	"github.com/hpungsan/taskflow/internal/report"
	"github.com/hpungsan/taskflow/internal/settings"
	"github.com/hpungsan/taskflow/internal/study"
	"github.com/hpungsan/taskflow/internal/tui"
)

// cliDeps bundles what the commands need.
type cliDeps struct {
	store   *study.Store
	client  *api.Client
	cfg     *config.Config
	baseDir string
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *cliDeps) *cli.App {
	app := &cli.App{
		Name:    "taskflow",
		Usage:   "Study-assistant client",
		Version: Version,
		Commands: []*cli.Command{
			uploadCmd(deps),
			dashboardCmd(deps),
			chatCmd(deps),
			historyCmd(deps),
			calendarCmd(deps),
			sheetCmd(deps),
			settingsCmd(deps),
			clearCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// uploadCmd creates the upload command.
func uploadCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a document for processing and show the resulting dashboard",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewValidation("a file path is required"))
			}
			path := c.Args().First()

			f, err := os.Open(path)
			if err != nil {
				return outputError(err)
			}
			defer f.Close()

			fmt.Fprintf(c.App.Writer, "Processing %s...\n", filepath.Base(path))

			res, err := deps.client.UploadDocument(context.Background(), filepath.Base(path), f)
			if err != nil {
				return outputError(err)
			}

			if err := deps.store.Replace(res); err != nil {
				return outputError(err)
			}

			fmt.Fprintln(c.App.Writer, renderDashboard(res))
			return nil
		},
	}
}

// dashboardCmd creates the dashboard command.
func dashboardCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the most recent processing result",
		Action: func(c *cli.Context) error {
			res, err := deps.store.Get()
			if err != nil {
				return outputError(err)
			}
			if res == nil {
				fmt.Fprintln(c.App.Writer, "Nothing here yet. Upload a document first: taskflow upload <file>")
				return nil
			}
			fmt.Fprintln(c.App.Writer, renderDashboard(res))
			return nil
		},
	}
}

// chatCmd creates the chat command.
func chatCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat about the uploaded documents (interactive unless --message is given)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Send a single message and print the reply"},
		},
		Action: func(c *cli.Context) error {
			manager := chat.NewManager(deps.client)

			if msg := c.String("message"); msg != "" {
				manager.Start(context.Background())
				if !manager.Submit(context.Background(), msg) {
					return outputError(errors.NewValidation("message must not be empty"))
				}
				transcript := manager.Transcript()
				fmt.Fprintln(c.App.Writer, transcript[len(transcript)-1].Content)
				return nil
			}

			if err := tui.Run(manager); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// historyCmd creates the history command.
func historyCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past processing runs, most recent first",
		Action: func(c *cli.Context) error {
			entries, err := deps.client.FetchHistoryList(context.Background())
			if err != nil {
				return outputError(err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.App.Writer, "No history yet.")
				return nil
			}

			// Most recent first
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintln(c.App.Writer, styleHistoryTitle.Render(fmt.Sprintf("%s  %s", e.Timestamp, e.Filename)))
				fmt.Fprintf(c.App.Writer, "  %d tasks, %d flashcards, %d sessions\n", e.TasksCount, e.FlashcardsCount, e.ScheduleCount)
				if e.Summary != "" {
					fmt.Fprintf(c.App.Writer, "  %s\n", e.Summary)
				}
			}
			return nil
		},
	}
}

// calendarCmd creates the calendar command and its subcommands.
func calendarCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Connect Google Calendar and push study sessions to it",
		Subcommands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Start the Google Calendar auth flow",
				Action: func(c *cli.Context) error {
					flow := newFlow(deps)
					url, done, err := flow.Connect(context.Background())
					if err != nil {
						return outputError(errors.NewValidation(calendar.MissingSecretHint))
					}
					fmt.Fprintf(c.App.Writer, "Complete the sign-in in your browser:\n  %s\n", url)
					<-done
					fmt.Fprintln(c.App.Writer, "Google Calendar connected.")
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Add one schedule item to Google Calendar",
				ArgsUsage: "<session-number>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewValidation("a session number is required, see 'taskflow dashboard'"))
					}
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return outputError(errors.NewValidation("session number must be an integer"))
					}

					res, err := deps.store.Get()
					if err != nil {
						return outputError(err)
					}
					if res == nil || len(res.Schedule) == 0 {
						return outputError(errors.NewValidation(report.NoSchedule))
					}
					if n < 1 || n > len(res.Schedule) {
						return outputError(errors.NewValidation(fmt.Sprintf("session number must be between 1 and %d", len(res.Schedule))))
					}

					flow := newFlow(deps)
					if err := flow.AddItem(context.Background(), res.Schedule[n-1]); err != nil {
						if errors.IsUnauthorized(err) {
							return outputError(errors.NewValidation(calendar.RelinkMessage))
						}
						return outputError(err)
					}

					fmt.Fprintln(c.App.Writer, calendar.AddedMessage)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "Write the study schedule as an .ics file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (default: ~/.taskflow/exports/schedule-<timestamp>.ics)"},
				},
				Action: func(c *cli.Context) error {
					res, err := deps.store.Get()
					if err != nil {
						return outputError(err)
					}
					if res == nil || len(res.Schedule) == 0 {
						return outputError(errors.NewValidation(report.NoSchedule))
					}

					doc, written := calendar.BuildICS(res.Schedule, time.Now())
					if written == 0 {
						return outputError(errors.NewValidation("no schedule entries had a usable date"))
					}

					path := c.String("output")
					if path == "" {
						path = filepath.Join(db.ExportsDir(deps.baseDir), fmt.Sprintf("schedule-%s.ics", time.Now().Format("20060102-150405")))
					}
					if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
						return outputError(err)
					}

					fmt.Fprintf(c.App.Writer, "Wrote %d events to %s\n", written, path)
					return nil
				},
			},
		},
	}
}

// sheetCmd creates the sheet command.
func sheetCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "sheet",
		Usage: "Export the current result as a study sheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "md", Usage: "Output format: md|html"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			res, err := deps.store.Get()
			if err != nil {
				return outputError(err)
			}
			if res == nil {
				return outputError(errors.NewValidation("nothing to export, upload a document first"))
			}

			var out string
			switch c.String("format") {
			case "md":
				out = report.Markdown(res)
			case "html":
				out, err = report.HTML(res)
				if err != nil {
					return outputError(err)
				}
			default:
				return outputError(errors.NewValidation("format must be md or html"))
			}

			if path := c.String("output"); path != "" {
				if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
					return outputError(err)
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
				return nil
			}

			fmt.Fprint(c.App.Writer, out)
			return nil
		},
	}
}

// settingsCmd creates the settings command.
func settingsCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Configure the backend",
		Subcommands: []*cli.Command{
			{
				Name:  "set-key",
				Usage: "Save the AI provider API key (reads from stdin unless --key is given)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "The API key"},
				},
				Action: func(c *cli.Context) error {
					key := c.String("key")
					if key == "" && stdinHasData() {
						key, _ = readStdin()
					}

					capture := settings.NewCapture(deps.client)
					capture.SetKey(key)
					if err := capture.Save(context.Background()); err != nil {
						return outputError(err)
					}

					fmt.Fprintln(c.App.Writer, settings.SavedMessage)
					return nil
				},
			},
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(deps *cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Discard the stored processing result",
		Action: func(c *cli.Context) error {
			if err := deps.store.Clear(); err != nil {
				return outputError(err)
			}
			fmt.Fprintln(c.App.Writer, "Cleared.")
			return nil
		},
	}
}

// newFlow creates a calendar flow honoring a configured browser command.
func newFlow(deps *cliDeps) *calendar.Flow {
	flow := calendar.NewFlow(deps.client)
	if cmd := deps.cfg.BrowserCommand; cmd != "" {
		flow.OpenURL = func(url string) error {
			return browser.OpenURLWith(cmd, url)
		}
	}
	return flow
}

// Dashboard rendering

var (
	styleMetricCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Align(lipgloss.Center)
	styleMetricValue  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleSectionTitle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	styleHistoryTitle = lipgloss.NewStyle().Bold(true)
	styleMuted        = lipgloss.NewStyle().Faint(true)
)

// metricCard renders one labeled count.
func metricCard(label string, value int) string {
	return styleMetricCard.Render(fmt.Sprintf("%s\n%s", styleMetricValue.Render(strconv.Itoa(value)), label))
}

// renderDashboard lays out the full result: metric cards on top, then the
// summary, schedule, tasks, and flashcards sections.
func renderDashboard(res *study.Result) string {
	var b strings.Builder

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Tasks Found", len(res.Tasks)),
		metricCard("Flashcards", len(res.Flashcards)),
		metricCard("Study Sessions", len(res.Schedule)),
	)
	b.WriteString(cards)
	b.WriteString("\n")

	b.WriteString(styleSectionTitle.Render("Summary"))
	b.WriteString("\n")
	if res.Summary != "" {
		b.WriteString(res.Summary)
	} else {
		b.WriteString(styleMuted.Render(report.NoSummary))
	}
	b.WriteString("\n")

	b.WriteString(styleSectionTitle.Render("Study Schedule"))
	b.WriteString("\n")
	if len(res.Schedule) > 0 {
		for i, item := range res.Schedule {
			fmt.Fprintf(&b, "%2d. %s: %s (%d mins)\n", i+1, item.Date, item.Task, item.DurationMinutes)
		}
	} else {
		b.WriteString(styleMuted.Render(report.NoSchedule))
		b.WriteString("\n")
	}

	b.WriteString(styleSectionTitle.Render("Tasks"))
	b.WriteString("\n")
	if len(res.Tasks) > 0 {
		for _, task := range res.Tasks {
			fmt.Fprintf(&b, "  - %s\n", task.Description)
		}
	} else {
		b.WriteString(styleMuted.Render(report.NoTasks))
		b.WriteString("\n")
	}

	b.WriteString(styleSectionTitle.Render("Flashcards"))
	b.WriteString("\n")
	if len(res.Flashcards) > 0 {
		for _, card := range res.Flashcards {
			fmt.Fprintf(&b, "  Q: %s\n  A: %s\n", card.Front, card.Back)
			if len(card.Tags) > 0 {
				fmt.Fprintf(&b, "  %s\n", styleMuted.Render(strings.Join(card.Tags, ", ")))
			}
		}
	} else {
		b.WriteString(styleMuted.Render(report.NoFlashcards))
		b.WriteString("\n")
	}

	return b.String()
}

// Helper functions

// outputError formats error for CLI.
func outputError(err error) error {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Kind, errors.DetailOf(appErr)), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
