package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/tt-git-1/gradient-descent/internal/anim"
)

// chartWidth is the number of loss samples shown in the terminal chart.
const chartWidth = 72

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// formatSummary renders the end-of-run report with a loss chart.
func formatSummary(s anim.Summary) string {
	rows := [][2]string{
		{"Run", s.RunID},
		{"Frames", fmt.Sprintf("%d", s.Frames)},
		{"Initial θ", fmt.Sprintf("%.4f", s.InitialTheta)},
		{"Final θ", fmt.Sprintf("%.4f", s.FinalTheta)},
		{"Final loss", fmt.Sprintf("%.4f", s.FinalLoss)},
		{"Final velocity", fmt.Sprintf("%.4f", s.FinalVelocity)},
		{"Best loss", fmt.Sprintf("%.4f at θ=%.4f", s.MinLoss, s.MinLossTheta)},
		{"Recentres", fmt.Sprintf("%d", s.Recentres)},
		{"Elapsed", fmt.Sprintf("%s (%.1f frames/s)", s.Elapsed.Round(time.Millisecond), s.FramesPerSecond())},
	}
	if s.Output != "" {
		rows = append(rows, [2]string{"Output", s.Output})
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Gradient Descent Optimization"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	if s.Trajectory != nil && s.Trajectory.Len() > 1 {
		chart := asciigraph.Plot(s.Trajectory.Downsample(chartWidth),
			asciigraph.Height(8),
			asciigraph.Caption("loss over the run"))
		b.WriteString(graphStyle.Render(chart))
		b.WriteString("\n")
	}
	return b.String()
}
