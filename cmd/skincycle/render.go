package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/awaistahir/skincycle/internal/app"
	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/awaistahir/skincycle/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// renderer prints tracker views with per-type colours for the active theme
type renderer struct {
	dark    bool
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
}

func newRenderer(dark bool) renderer {
	muted := lipgloss.Color("#6E6E73")
	if dark {
		muted = lipgloss.Color("#98989D")
	}
	return renderer{
		dark:    dark,
		title:   lipgloss.NewStyle().Bold(true),
		muted:   lipgloss.NewStyle().Foreground(muted),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#30D158")),
	}
}

func (r renderer) typeStyle(t engine.ProductType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent(t, r.dark)))
}

func (r renderer) stepLine(step engine.RoutineStep) string {
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(step.Color))
	return accent.Render(fmt.Sprintf("Day %s/%d · %s", step.DayNumber, engine.StepCount(), step.Description))
}

func (r renderer) day(w io.Writer, day engine.Day) {
	fmt.Fprintln(w, r.title.Render(day.Date.Format("Monday, 2 January")))
	fmt.Fprintln(w, r.stepLine(day.Step))
	fmt.Fprintln(w)

	if len(day.Products) == 0 {
		fmt.Fprintln(w, r.muted.Render("Every product is resting, or the shelf is empty."))
		return
	}

	for _, rp := range day.Products {
		marker := "  "
		if rp.Recommended {
			marker = r.success.Render("★ ")
		}
		fmt.Fprintf(w, "%s%-30s %s  %s\n",
			marker,
			rp.Product.Name,
			r.typeStyle(rp.Product.Type).Render(fmt.Sprintf("%-10s", theme.Label(rp.Product.Type))),
			r.muted.Render(rp.Product.ID))
	}
}

func (r renderer) shelf(w io.Writer, items []app.ShelfItem) {
	fmt.Fprintf(w, "%-30s %-10s %8s  %-22s %s\n", "NAME", "TYPE", "COOLDOWN", "STATUS", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, item := range items {
		status := r.success.Render(fmt.Sprintf("%-22s", "Ready"))
		if !item.Availability.Eligible {
			status = r.muted.Render(fmt.Sprintf("%-22s", fmt.Sprintf("Resting: %d more day(s)", item.Availability.DaysRemaining)))
		}
		fmt.Fprintf(w, "%-30s %s %7dd  %s %s\n",
			item.Product.Name,
			r.typeStyle(item.Product.Type).Render(fmt.Sprintf("%-10s", theme.Label(item.Product.Type))),
			item.Product.CooldownDays,
			status,
			item.Product.ID)
	}
}

func (r renderer) history(w io.Writer, items []app.HistoryItem) {
	for _, item := range items {
		fmt.Fprintf(w, "%s %s", r.title.Render(item.Date.Format("2 Jan 2006")), r.muted.Render(item.Entry.Time))
		if item.Entry.DayTitle != "" {
			fmt.Fprintf(w, "  %s", item.Entry.DayTitle)
		}
		fmt.Fprintln(w)

		for _, p := range item.Products {
			fmt.Fprintf(w, "  • %s %s\n", p.Name, r.typeStyle(p.Type).Render(theme.Label(p.Type)))
		}
		if missing := len(item.Entry.ProductsUsedIDs) - len(item.Products); missing > 0 {
			fmt.Fprintf(w, "  %s\n", r.muted.Render(fmt.Sprintf("+ %d deleted product(s)", missing)))
		}
	}
}

func (r renderer) routine(w io.Writer, today engine.Day) {
	for _, step := range engine.Routine() {
		marker := "  "
		if step.DayNumber == today.Step.DayNumber {
			marker = r.success.Render("▶ ")
		}

		targets := []string{}
		for _, t := range step.TargetTypes {
			targets = append(targets, r.typeStyle(t).Render(theme.Label(t)))
		}
		fmt.Fprintf(w, "%s%s  %s\n", marker, r.stepLine(step), strings.Join(targets, ", "))
	}
}
