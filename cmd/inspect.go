package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/sound2sight/model"
	"github.com/spf13/cobra"
)

var inspectConfig runConfig

func init() {
	inspectConfig.addFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Summarizes the timeline of an event log",
	Long:  `Parses an event log and prints its transport, sections and per player pattern counts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := inspectConfig.catalog()
		if err != nil {
			return err
		}
		res, err := inspectConfig.parseFile(args[0], cat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summarize(args[0], res))
		return nil
	},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Width(20)
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Width(12).Align(lipgloss.Left)
	wideStyle   = lipgloss.NewStyle().Width(20).Align(lipgloss.Left)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type playerSummary struct {
	measures int
	plays    int
	unique   int
}

func summarizePlayer(p *model.Player) playerSummary {
	var s playerSummary
	seen := make(map[int32]bool)
	for _, pm := range p.Measures {
		s.measures += 1
		s.plays += pm.PlayCount
		if !seen[pm.Pattern.Hash] {
			seen[pm.Pattern.Hash] = true
			s.unique += 1
		}
	}
	return s
}

func row(style lipgloss.Style, first string, rest ...string) string {
	cells := []string{style.Inherit(wideStyle).Render(first)}
	for _, v := range rest {
		cells = append(cells, style.Inherit(cellStyle).Render(v))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func summarize(path string, res *model.Result) string {
	field := func(label string, value any) string {
		return labelStyle.Render(label) + fmt.Sprint(value)
	}

	lines := []string{
		titleStyle.Render(path),
		field("bpm", fmt.Sprintf("%.2f", res.BPM)),
		field("time signature", fmt.Sprintf("%d beats per bar", res.Transport.NotesPerBar)),
		field("bar length (ticks)", res.BarLengthTicks),
		field("total ticks", res.TotalTicks),
		field("sections", res.Sections),
		"",
		row(headerStyle, "instrument", "player", "entries", "bars", "patterns"),
	}
	for _, p := range res.Players {
		s := summarizePlayer(p)
		lines = append(lines, row(lipgloss.NewStyle(), p.Instrument,
			fmt.Sprint(p.Number), fmt.Sprint(s.measures), fmt.Sprint(s.plays), fmt.Sprint(s.unique)))
	}

	d := res.Diagnostics
	if d.DroppedNoteOffs > 0 || d.UnterminatedNotes > 0 {
		lines = append(lines, "", warnStyle.Render(fmt.Sprintf("%d dropped note offs, %d unterminated notes",
			d.DroppedNoteOffs, d.UnterminatedNotes)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
