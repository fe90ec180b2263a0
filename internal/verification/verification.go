// Package verification verifies that the generated output file recreates the input.
package verification

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput verifies that the output file reassembles into the exact input image.
func VerifyOutput(logger *log.Logger, opts options.Program, disasmOpts options.Disassembler, input []byte) error {
	if opts.Output == "" {
		return errors.New("can not verify console output")
	}

	file, err := os.Open(opts.Output)
	if err != nil {
		return fmt.Errorf("opening output file '%s': %w", opts.Output, err)
	}
	defer func() {
		_ = file.Close()
	}()

	output, err := Reassemble(file, disasmOpts.Base)
	if err != nil {
		return fmt.Errorf("reassembling '%s': %w", opts.Output, err)
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

// Reassemble converts a listing back into a program image that starts at the
// base address. Empty lines and comments are ignored.
func Reassemble(reader io.Reader, base uint16) ([]byte, error) {
	var image []byte

	scanner := bufio.NewScanner(reader)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line, _, _ := strings.Cut(scanner.Text(), ";")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		address, data, err := assembleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if address < base {
			return nil, fmt.Errorf("line %d: address $%03X is below base address $%03X", lineNumber, address, base)
		}

		end := int(address-base) + len(data)
		if end > len(image) {
			image = append(image, make([]byte, end-len(image))...)
		}
		copy(image[address-base:], data)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return image, nil
}

// assembleLine assembles a listing line in the format "ADDR: text".
func assembleLine(line string) (uint16, []byte, error) {
	prefix, text, ok := strings.Cut(line, ":")
	if !ok {
		return 0, nil, fmt.Errorf("%w: missing address in '%s'", chip8.ErrSyntax, line)
	}

	address, err := strconv.ParseUint(strings.TrimSpace(prefix), 16, 12)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid address '%s'", chip8.ErrSyntax, prefix)
	}

	data, err := chip8.Assemble(text)
	if err != nil {
		return 0, nil, fmt.Errorf("assembling '%s': %w", strings.TrimSpace(text), err)
	}
	return uint16(address), data, nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
