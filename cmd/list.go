package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/codegym-software/imeetcal/internal/api"
	"github.com/codegym-software/imeetcal/internal/calendar"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's meetings and exit",
	Long:  `List all meetings for today in a simple text format and exit.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("setting up API client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	start, end := calendar.RangeFor(now, calendar.Day)
	raws, err := client.ListMeetings(ctx, start, end)
	if err != nil {
		return fmt.Errorf("error getting meetings: %w", err)
	}
	events := calendar.NormalizeAll(raws, log.New(io.Discard, "", 0))

	fmt.Printf("Meetings for %s:\n", now.Format(cfg.DateFormat))
	if len(events) == 0 {
		fmt.Println("No meetings found.")
		return nil
	}

	for _, event := range events {
		timeStr := "All day"
		if !event.AllDay {
			timeStr = fmt.Sprintf("%s - %s", event.Start.Format(cfg.TimeFormat), event.End.Format(cfg.TimeFormat))
		}

		fmt.Printf("  %s  %s\n", timeStr, event.Title)
		if event.MeetingRoom != "" {
			fmt.Printf("    Room: %s\n", event.MeetingRoom)
		}
		if len(event.Attendees) > 0 {
			fmt.Printf("    Attendees: %v\n", event.Attendees)
		}
	}

	return nil
}
