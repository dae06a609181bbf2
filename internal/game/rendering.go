package game

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// ANSI color codes for board rendering
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorBlue  = "\033[34m"
	ColorGray  = "\033[90m"
)

var playerColors = [core.Players]string{ColorRed, ColorBlue}

const playerSymbols = "AB"

// Board renders the current state. Each piece is shown as its owner's
// letter and id; a trailing '*' marks a defending piece.
func (e *Engine) Board(color bool) string {
	return RenderBoard(e.gs, color)
}

// RenderBoard renders any state, row 0 at the top
func RenderBoard(gs *core.GameState, color bool) string {
	width, height := gs.Config.Board.X, gs.Config.Board.Y

	var sb strings.Builder
	sb.Grow((width*12 + 8) * (height + 4))

	sb.WriteString("   ")
	for x := 0; x < width; x++ {
		sb.WriteString(padLeft(strconv.Itoa(x), 4))
	}
	sb.WriteString("\n")

	for y := 0; y < height; y++ {
		sb.WriteString(padLeft(strconv.Itoa(y), 3))
		for x := 0; x < width; x++ {
			sb.WriteString(" ")
			writeCell(&sb, gs, core.Coordinate{X: x, Y: y}, color)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nscore ")
	for owner := 0; owner < core.Players; owner++ {
		if owner > 0 {
			sb.WriteString(" ")
		}
		sb.WriteByte(playerSymbols[owner])
		sb.WriteString("=")
		sb.WriteString(strconv.Itoa(gs.Score[owner]))
	}
	sb.WriteString("  turn ")
	sb.WriteString(strconv.Itoa(gs.Turn))
	sb.WriteString("\n")
	return sb.String()
}

func writeCell(sb *strings.Builder, gs *core.GameState, c core.Coordinate, color bool) {
	id := gs.Cells[gs.IndexOf(c)]
	if id == core.EmptyCell {
		if color {
			sb.WriteString(ColorGray)
		}
		sb.WriteString(" · ")
		if color {
			sb.WriteString(ColorReset)
		}
		return
	}

	p := gs.FindPiece(id)
	if p == nil {
		sb.WriteString(" ? ")
		return
	}
	if color {
		sb.WriteString(playerColors[p.Owner])
	}
	sb.WriteByte(playerSymbols[p.Owner])
	sb.WriteString(strconv.Itoa(p.ID))
	if p.IsDefending {
		sb.WriteString("*")
	} else {
		sb.WriteString(" ")
	}
	if color {
		sb.WriteString(ColorReset)
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
