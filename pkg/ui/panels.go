package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"tgdownloader/internal/downloader"
	"tgdownloader/pkg/models"
)

// OptionsTable lists the choices offered for media type, quantity and order
func OptionsTable() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("OPTION", "CHOICES", "DEFAULT").
		Row("Media type", "photos, videos, both", "both").
		Row("Quantity", "any positive number", "500").
		Row("Order", "newest, oldest", "oldest").
		StyleFunc(cellStyle)
	return t.String()
}

// TargetTable shows what a run is about to do
func TargetTable(target models.Target, destination string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("SETTING", "VALUE").
		Row("Chat", target.Chat.DisplayName()).
		Row("Media type", string(target.Filter)).
		Row("Quantity", strconv.Itoa(target.MaxCount)).
		Row("Order", orderLabel(target.Order)).
		Row("Destination", destination).
		StyleFunc(cellStyle)
	return t.String()
}

// SummaryPanel renders the outcome of a run
func SummaryPanel(s downloader.Summary) string {
	heading := successStyle.Render("Download complete")
	switch {
	case s.Cancelled:
		heading = warningStyle.Render("Download cancelled")
	case s.Err != nil:
		heading = errorStyle.Render("Download stopped")
	}

	lines := []string{
		heading,
		"",
		summaryLine("Finished", strconv.Itoa(s.Finished)),
		summaryLine("Skipped", strconv.Itoa(s.Skipped)+dimStyle.Render(" (already downloaded)")),
		summaryLine("Failed", strconv.Itoa(s.Failed)),
		summaryLine("Elapsed", FormatDuration(s.Elapsed)),
	}
	if len(s.Albums) > 0 {
		lines = append(lines, summaryLine("Albums", strconv.Itoa(len(s.Albums))))
	}
	if s.Folder != "" {
		lines = append(lines, summaryLine("Folder", s.Folder))
	}
	if len(s.FailedIDs) > 0 {
		lines = append(lines, summaryLine("Failed ids", joinIDs(s.FailedIDs, 10)))
	}
	if s.Err != nil {
		lines = append(lines, "", errorStyle.Render(s.Err.Error()))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func cellStyle(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return labelStyle.Padding(0, 1)
	case col == 0:
		return lipgloss.NewStyle().Padding(0, 1)
	default:
		return valueStyle.Padding(0, 1)
	}
}

func summaryLine(label, value string) string {
	return labelStyle.Width(12).Render(label) + value
}

func orderLabel(o models.Order) string {
	if o == models.NewestFirst {
		return "newest first"
	}
	return "oldest first"
}

func joinIDs(ids []int, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, id := range ids {
		if i == limit {
			parts = append(parts, fmt.Sprintf("… %d more", len(ids)-limit))
			break
		}
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ", ")
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
