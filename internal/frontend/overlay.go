package frontend

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/machine"
)

const overlayListingLines = 12

var (
	foregroundPixel = [4]byte{0xE0, 0xE0, 0xE0, 0xFF}
	backgroundPixel = [4]byte{0x10, 0x10, 0x10, 0xFF}
)

// renderFrame converts the display rows to RGBA pixels.
func renderFrame(rows [machine.DisplayHeight]uint64, pixels []byte) {
	for y, row := range rows {
		for x := range machine.DisplayWidth {
			color := backgroundPixel
			if row&(1<<(machine.DisplayWidth-1-x)) != 0 {
				color = foregroundPixel
			}
			copy(pixels[(y*machine.DisplayWidth+x)*4:], color[:])
		}
	}
}

// overlayText returns the lines of the debug overlay. The snapshot has to
// contain the complete memory.
func overlayText(snapshot debugger.Snapshot) []string {
	regs := snapshot.Registers

	lines := make([]string, 0, 4+overlayListingLines)
	lines = append(lines,
		fmt.Sprintf("V0-7 % 02X", regs.V[:8]),
		fmt.Sprintf("V8-F % 02X", regs.V[8:]),
		fmt.Sprintf("I=%04X PC=%03X SP=%d DT=%02X ST=%02X",
			regs.I, regs.PC, regs.SP, snapshot.Timers.Delay, snapshot.Timers.Sound))

	status := fmt.Sprintf("%s %d/s cycles %d ff %d",
		snapshot.Mode, snapshot.Rate, snapshot.Cycles, snapshot.FastForwarded)
	switch {
	case snapshot.Halted != nil:
		status = "halted: " + snapshot.Halted.Error()
	case snapshot.Waiting:
		status += " key?"
	}
	lines = append(lines, status)

	for _, entry := range disasm.Window(snapshot.Memory, regs.PC, overlayListingLines) {
		marker := " "
		if entry.Address == regs.PC {
			marker = ">"
		}
		lines = append(lines, strings.TrimRight(fmt.Sprintf("%s%03X %s", marker, entry.Address, entry.Text), " "))
	}
	return lines
}
