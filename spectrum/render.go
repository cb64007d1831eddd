package spectrum

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/viterin/vek/vek32"
)

// dynamicRange is the span of decibels below the loudest cell that gets a
// colour; anything quieter is drawn blank.
const dynamicRange = 80

var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#1a0b3d")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#3b0f70")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#641a80")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#8c2981")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#b73779")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#de4968")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#f7705c")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#fe9f6d")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#fecf92")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#fcfdbf")),
}

var labelStyle = lipgloss.NewStyle().Faint(true)

// Render draws the spectrogram as a heat map with time running left to right
// and rows logarithmically spaced frequency bands from 20 Hz to Nyquist, the
// highest band on top. One column is drawn per frame.
func Render(w io.Writer, s *Spectrogram, rows int) error {
	if len(s.Power) == 0 || rows <= 0 {
		return nil
	}
	bands := bandEdges(s, rows)
	top := float32(math.Inf(-1))
	levels := make([][]float32, rows)
	for r := range rows {
		levels[r] = make([]float32, len(s.Power))
		for f, power := range s.Power {
			lo, hi := bands[r], max(bands[r+1], bands[r]+1)
			levels[r][f] = vek32.Max(power[lo:hi])
		}
		top = max(top, vek32.Max(levels[r]))
	}
	for r := rows - 1; r >= 0; r-- {
		var sb strings.Builder
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%6.0f Hz ", s.BinFrequency(bands[r]))))
		for _, level := range levels[r] {
			sb.WriteString(cell(level, top))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("could not write spectrogram: %w", err)
		}
	}
	footer := fmt.Sprintf("%10s0 s .. %.1f s, %d frames of %.2f s\n", "", s.FrameTime(len(s.Power)-1), len(s.Power), float64(s.Window)/float64(s.SampleRate))
	if _, err := io.WriteString(w, labelStyle.Render(footer)); err != nil {
		return fmt.Errorf("could not write spectrogram: %w", err)
	}
	return nil
}

func cell(level, top float32) string {
	x := (level - top + dynamicRange) / dynamicRange
	if x <= 0 {
		return " "
	}
	i := min(int(x*float32(len(palette))), len(palette)-1)
	return palette[i].Render("█")
}

// bandEdges returns rows+1 increasing bin indices splitting the spectrum
// into logarithmically spaced bands.
func bandEdges(s *Spectrogram, rows int) []int {
	bins := len(s.Power[0])
	lowest := math.Log(20)
	highest := math.Log(float64(s.SampleRate) / 2)
	ret := make([]int, rows+1)
	for i := range ret {
		f := math.Exp(lowest + (highest-lowest)*float64(i)/float64(rows))
		bin := int(f*float64(s.Window)/float64(s.SampleRate)) - 1
		ret[i] = min(max(bin, 0), bins-1)
	}
	ret[rows] = bins
	for i := 1; i < len(ret); i++ {
		ret[i] = max(ret[i], ret[i-1])
	}
	return ret
}
