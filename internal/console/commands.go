package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/disasm"
)

const (
	memoryDumpBytes   = 64
	bytesPerDumpLine  = 16
	disassembleLines  = 10
	listingLines      = 16
	maxListingLines   = chip8.MemorySize / chip8.OpcodeSize
	maxStepCount      = 1000
	maxDisplayedSteps = 20
)

var commands *cmd.Tree

func init() {
	root := cmd.NewTree("retrochip8")
	root.AddCommand(cmd.Command{
		Name:  "help",
		Brief: "Display help for a command",
		Usage: "help [<command>]",
		Data:  (*Console).cmdHelp,
	})

	bp := cmd.NewTree("Breakpoint")
	root.AddCommand(cmd.Command{
		Name:    "breakpoint",
		Brief:   "Breakpoint commands",
		Subtree: bp,
	})
	bp.AddCommand(cmd.Command{
		Name:  "list",
		Brief: "List breakpoints",
		Usage: "breakpoint list",
		Data:  (*Console).cmdBreakpointList,
	})
	bp.AddCommand(cmd.Command{
		Name:        "add",
		Brief:       "Add a breakpoint",
		Description: "Add a breakpoint at the specified address. Execution pauses before the instruction at the address is executed.",
		Usage:       "breakpoint add <address>",
		Data:        (*Console).cmdBreakpointAdd,
	})
	bp.AddCommand(cmd.Command{
		Name:  "remove",
		Brief: "Remove a breakpoint",
		Usage: "breakpoint remove <address>",
		Data:  (*Console).cmdBreakpointRemove,
	})
	bp.AddCommand(cmd.Command{
		Name:  "enable",
		Brief: "Enable a breakpoint",
		Usage: "breakpoint enable <address>",
		Data:  (*Console).cmdBreakpointEnable,
	})
	bp.AddCommand(cmd.Command{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Usage: "breakpoint disable <address>",
		Data:  (*Console).cmdBreakpointDisable,
	})
	bp.AddCommand(cmd.Command{
		Name:  "clear",
		Brief: "Remove all breakpoints",
		Usage: "breakpoint clear",
		Data:  (*Console).cmdBreakpointClear,
	})

	root.AddCommand(cmd.Command{
		Name:        "continue",
		Brief:       "Continue the execution",
		Description: "Continue the execution of a paused machine. A breakpoint at the current address does not trigger again.",
		Usage:       "continue",
		Data:        (*Console).cmdContinue,
	})
	root.AddCommand(cmd.Command{
		Name:  "disassemble",
		Brief: "Disassemble memory",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Console).cmdDisassemble,
	})
	root.AddCommand(cmd.Command{
		Name:  "list",
		Brief: "List the instructions around the program counter",
		Usage: "list [<lines>]",
		Data:  (*Console).cmdList,
	})
	root.AddCommand(cmd.Command{
		Name:  "memory",
		Brief: "Dump memory",
		Usage: "memory [<address>] [<bytes>]",
		Data:  (*Console).cmdMemory,
	})
	root.AddCommand(cmd.Command{
		Name:        "next",
		Brief:       "Step over the next instruction",
		Description: "Execute the next instruction. A subroutine call is executed until it returned.",
		Usage:       "next",
		Data:        (*Console).cmdNext,
	})
	root.AddCommand(cmd.Command{
		Name:  "pause",
		Brief: "Pause the execution",
		Usage: "pause",
		Data:  (*Console).cmdPause,
	})
	root.AddCommand(cmd.Command{
		Name:  "quit",
		Brief: "Quit the program",
		Usage: "quit",
		Data:  (*Console).cmdQuit,
	})
	root.AddCommand(cmd.Command{
		Name:        "rate",
		Brief:       "Display or set the instruction rate",
		Description: "Display the instruction rate or set it to the given number of instructions per second.",
		Usage:       "rate [<instructions per second>]",
		Data:        (*Console).cmdRate,
	})
	root.AddCommand(cmd.Command{
		Name:  "registers",
		Brief: "Display the registers, timers and stack",
		Usage: "registers",
		Data:  (*Console).cmdRegisters,
	})
	root.AddCommand(cmd.Command{
		Name:  "reset",
		Brief: "Restart the program, breakpoints are kept",
		Usage: "reset",
		Data:  (*Console).cmdReset,
	})
	root.AddCommand(cmd.Command{
		Name:  "step",
		Brief: "Execute the next instruction",
		Usage: "step [<count>]",
		Data:  (*Console).cmdStep,
	})

	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint list")
	root.AddShortcut("c", "continue")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("m", "memory")
	root.AddShortcut("n", "next")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step")
	root.AddShortcut("?", "help")

	commands = root
}

func (c *Console) cmdHelp(s cmd.Selection) error {
	if len(s.Args) == 0 {
		c.displayCommands(commands, nil)
		return nil
	}

	sel, err := commands.Lookup(strings.Join(s.Args, " "))
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	if sel.Command.Subtree != nil {
		c.displayCommands(sel.Command.Subtree, sel.Command)
		return nil
	}

	if sel.Command.Usage != "" {
		c.printf("Usage: %s\n\n", sel.Command.Usage)
	}
	switch {
	case sel.Command.Description != "":
		c.printf("Description:\n   %s\n\n", sel.Command.Description)
	case sel.Command.Brief != "":
		c.printf("Description:\n   %s.\n\n", sel.Command.Brief)
	}
	c.displayShortcuts(sel.Command)
	return nil
}

func (c *Console) cmdBreakpointList(_ cmd.Selection) error {
	breakpoints := c.debugger.Breakpoints()
	if len(breakpoints) == 0 {
		c.println("No breakpoints set.")
		return nil
	}

	c.println("Breakpoints:")
	for _, b := range breakpoints {
		state := ""
		if !b.Enabled {
			state = " (disabled)"
		}
		c.printf("   $%03X%s\n", b.Address, state)
	}
	return nil
}

func (c *Console) cmdBreakpointAdd(s cmd.Selection) error {
	return c.breakpointCommand(s, c.debugger.SetBreakpoint, "Breakpoint added at $%03X.\n")
}

func (c *Console) cmdBreakpointRemove(s cmd.Selection) error {
	return c.breakpointCommand(s, c.debugger.ClearBreakpoint, "Breakpoint at $%03X removed.\n")
}

func (c *Console) cmdBreakpointEnable(s cmd.Selection) error {
	return c.breakpointCommand(s, c.debugger.EnableBreakpoint, "Breakpoint at $%03X enabled.\n")
}

func (c *Console) cmdBreakpointDisable(s cmd.Selection) error {
	return c.breakpointCommand(s, c.debugger.DisableBreakpoint, "Breakpoint at $%03X disabled.\n")
}

func (c *Console) breakpointCommand(s cmd.Selection, apply func(int) error, message string) error {
	if len(s.Args) < 1 {
		c.displayUsage(s.Command)
		return nil
	}

	address, err := chip8.ParseAddress(s.Args[0])
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	if err := apply(int(address)); err != nil {
		c.printf("%v\n", err)
		return nil
	}
	c.printf(message, address)
	return nil
}

func (c *Console) cmdBreakpointClear(_ cmd.Selection) error {
	c.debugger.ClearBreakpoints()
	c.println("All breakpoints removed.")
	return nil
}

func (c *Console) cmdContinue(_ cmd.Selection) error {
	if err := c.debugger.Resume(); err != nil {
		c.printf("%v\n", err)
		return nil
	}
	c.println("Running.")
	return nil
}

func (c *Console) cmdPause(_ cmd.Selection) error {
	c.debugger.Pause()
	c.displayPC()
	return nil
}

func (c *Console) cmdStep(s cmd.Selection) error {
	count := 1
	if len(s.Args) > 0 {
		n, err := strconv.Atoi(s.Args[0])
		if err != nil || n < 1 || n > maxStepCount {
			c.printf("Invalid step count '%s'.\n", s.Args[0])
			return nil
		}
		count = n
	}

	for i := count - 1; i >= 0; i-- {
		if _, err := c.debugger.StepOne(); err != nil {
			c.stepError(err)
			return nil
		}
		switch {
		case i == maxDisplayedSteps:
			c.println("...")
		case i < maxDisplayedSteps:
			c.displayPC()
		}
	}

	c.settings.nextDisasmAddress = c.debugger.Machine().Registers().PC
	return nil
}

func (c *Console) cmdNext(_ cmd.Selection) error {
	if err := c.debugger.StepOver(); err != nil {
		c.stepError(err)
	}
	return nil
}

func (c *Console) stepError(err error) {
	if errors.Is(err, debugger.ErrNotPaused) {
		c.println("The machine is running, use 'pause' first.")
		return
	}
	c.printf("%v\n", err)
}

func (c *Console) cmdRegisters(_ cmd.Selection) error {
	snapshot, err := c.debugger.Inspect(0, 0)
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	regs := snapshot.Registers
	buf := &strings.Builder{}
	for i, value := range regs.V {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%s=%02X", chip8.RegisterName(uint8(i)), value)
	}
	c.println(buf.String())

	c.printf("I=$%04X PC=$%03X SP=%d DT=%02X ST=%02X\n",
		regs.I, regs.PC, regs.SP, snapshot.Timers.Delay, snapshot.Timers.Sound)

	stack := make([]string, 0, len(snapshot.Stack))
	for _, address := range snapshot.Stack {
		stack = append(stack, fmt.Sprintf("$%03X", address))
	}
	c.printf("Stack: [%s]\n", strings.Join(stack, " "))

	waiting := ""
	if snapshot.Waiting {
		waiting = " waiting for key"
	}
	c.printf("Mode: %s%s Rate: %d Cycles: %d Fast-forwarded: %d\n",
		snapshot.Mode, waiting, snapshot.Rate, snapshot.Cycles, snapshot.FastForwarded)
	return nil
}

func (c *Console) cmdMemory(s cmd.Selection) error {
	address := c.settings.nextMemoryAddress
	if len(s.Args) > 0 {
		var err error
		if address, err = chip8.ParseAddress(s.Args[0]); err != nil {
			c.printf("%v\n", err)
			return nil
		}
	}

	length := c.settings.memoryLength
	if length == 0 {
		length = memoryDumpBytes
	}
	if len(s.Args) > 1 {
		n, err := strconv.Atoi(s.Args[1])
		if err != nil || n < 1 {
			c.printf("Invalid byte count '%s'.\n", s.Args[1])
			return nil
		}
		length = n
	}
	c.settings.memoryLength = length
	length = min(length, chip8.MemorySize-int(address))

	snapshot, err := c.debugger.Inspect(address, length)
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	for offset := 0; offset < len(snapshot.Memory); offset += bytesPerDumpLine {
		line := snapshot.Memory[offset:min(offset+bytesPerDumpLine, len(snapshot.Memory))]
		c.printf("%03X: % X\n", int(address)+offset, line)
	}

	c.settings.nextMemoryAddress = uint16((int(address) + length) % chip8.MemorySize)
	c.lastCmd.Args = nil
	return nil
}

func (c *Console) cmdDisassemble(s cmd.Selection) error {
	address := c.settings.nextDisasmAddress
	if address == 0 {
		address = c.debugger.Machine().Registers().PC
	}
	if len(s.Args) > 0 {
		var err error
		if address, err = chip8.ParseAddress(s.Args[0]); err != nil {
			c.printf("%v\n", err)
			return nil
		}
	}

	lines := c.settings.disasmLines
	if lines == 0 {
		lines = disassembleLines
	}
	if len(s.Args) > 1 {
		n, err := strconv.Atoi(s.Args[1])
		if err != nil || n < 1 {
			c.printf("Invalid line count '%s'.\n", s.Args[1])
			return nil
		}
		lines = n
	}
	c.settings.disasmLines = lines

	// enough bytes for the requested lines, placeholders need fewer
	length := min(lines*chip8.OpcodeSize, chip8.MemorySize-int(address))
	snapshot, err := c.debugger.Inspect(address, length)
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	dis := disasm.New(c.logger, snapshot.Memory, address, disasm.Options{})
	next := int(address) + length
	for entry := range dis.Entries() {
		c.printEntry(entry, snapshot.Registers.PC)
		next = int(entry.Address) + len(entry.Data)
	}

	c.settings.nextDisasmAddress = uint16(next % chip8.MemorySize)
	c.lastCmd.Args = nil
	return nil
}

func (c *Console) cmdList(s cmd.Selection) error {
	lines := listingLines
	if len(s.Args) > 0 {
		n, err := strconv.Atoi(s.Args[0])
		if err != nil || n < 1 || n > maxListingLines {
			c.printf("Invalid line count '%s'.\n", s.Args[0])
			return nil
		}
		lines = n
	}

	snapshot, err := c.debugger.Inspect(0, chip8.MemorySize)
	if err != nil {
		c.printf("%v\n", err)
		return nil
	}

	pc := snapshot.Registers.PC
	for _, entry := range disasm.Window(snapshot.Memory, pc, lines) {
		c.printEntry(entry, pc)
	}
	return nil
}

func (c *Console) cmdRate(s cmd.Selection) error {
	if len(s.Args) > 0 {
		rate, err := strconv.Atoi(s.Args[0])
		if err != nil || rate < 1 || rate > debugger.MaxRate {
			c.printf("Invalid rate '%s', valid range is 1-%d.\n", s.Args[0], debugger.MaxRate)
			return nil
		}
		c.debugger.SetRate(rate)
	}
	c.printf("Instruction rate: %d per second\n", c.debugger.Rate())
	return nil
}

func (c *Console) cmdReset(_ cmd.Selection) error {
	c.debugger.Reset()
	c.settings = settings{}
	c.println("Program restarted.")
	c.displayPC()
	return nil
}

func (c *Console) cmdQuit(_ cmd.Selection) error {
	return ErrQuit
}

// displayPC prints the instruction at the program counter.
func (c *Console) displayPC() {
	snapshot, err := c.debugger.Inspect(0, 0)
	if err != nil {
		c.printf("%v\n", err)
		return
	}

	waiting := ""
	if snapshot.Waiting {
		waiting = "  (waiting for key)"
	}
	c.printf("%03X: %s%s\n", snapshot.Registers.PC, snapshot.Next, waiting)
}

func (c *Console) printEntry(entry disasm.Entry, pc uint16) {
	marker := " "
	if entry.Address == pc {
		marker = ">"
	}
	c.printf("%s %03X: %-16s ; % X\n", marker, entry.Address, entry.Text, entry.Data)
}

func (c *Console) displayUsage(command *cmd.Command) {
	if command.Usage != "" {
		c.printf("Usage: %s\n", command.Usage)
	}
}

func (c *Console) displayCommands(tree *cmd.Tree, command *cmd.Command) {
	c.printf("%s commands:\n", tree.Title)
	for _, sub := range tree.Commands {
		if sub.Brief != "" {
			c.printf("    %-15s  %s\n", sub.Name, sub.Brief)
		}
	}
	c.println()

	if command != nil {
		c.displayShortcuts(command)
	}
}

func (c *Console) displayShortcuts(command *cmd.Command) {
	switch len(command.Shortcuts) {
	case 0:
	case 1:
		c.printf("Shortcut: %s\n\n", command.Shortcuts[0])
	default:
		c.printf("Shortcuts: %s\n\n", strings.Join(command.Shortcuts, ", "))
	}
}
