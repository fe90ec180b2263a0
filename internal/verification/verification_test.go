package verification

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testProgram = []byte{
	0x00, 0xE0, // cls
	0x6A, 0x02, // ld VA, $02
	0xFF, 0xFF, // data
	0xD0, 0x15, // drw V0, V1, $5
	0x8E, 0x3E, // shl VE, V3
	0x0A, 0xBC, // sys $ABC
	0xF3, 0x65, // ld V3, [I]
	0x07, // trailing byte
}

func listing(t *testing.T, data []byte, options writer.Options) string {
	t.Helper()
	dis := disasm.New(log.NewTestLogger(t), data, chip8.ProgramStart, disasm.Options{})

	var buf bytes.Buffer
	assert.NoError(t, writer.New(&buf, options).Write(data, chip8.ProgramStart, dis.Entries()))
	return buf.String()
}

func TestReassemble_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		options writer.Options
	}{
		{name: "plain", options: writer.Options{}},
		{name: "hex comments and header", options: writer.Options{HexComments: true, Header: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := listing(t, testProgram, tt.options)

			image, err := Reassemble(strings.NewReader(text), chip8.ProgramStart)
			assert.NoError(t, err)
			assert.Equal(t, testProgram, image)
		})
	}
}

func TestReassemble_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing address", input: "cls\n"},
		{name: "invalid address", input: "XYZ: cls\n"},
		{name: "unknown mnemonic", input: "200: mov V0, V1\n"},
		{name: "below base", input: "1FE: cls\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reassemble(strings.NewReader(tt.input), chip8.ProgramStart)
			assert.Error(t, err)
		})
	}

	_, err := Reassemble(strings.NewReader("200: mov V0, V1\n"), chip8.ProgramStart)
	assert.True(t, errors.Is(err, chip8.ErrSyntax))
}

func TestVerifyOutput(t *testing.T) {
	logger := log.NewNop() // mismatches are logged at error level
	output := filepath.Join(t.TempDir(), "test.asm")
	assert.NoError(t, os.WriteFile(output, []byte(listing(t, testProgram, writer.Options{HexComments: true})), 0600))

	opts := options.Program{Parameters: options.Parameters{Output: output}}
	disasmOpts := options.NewDisassembler()
	assert.NoError(t, VerifyOutput(logger, opts, disasmOpts, testProgram))

	modified := bytes.Clone(testProgram)
	modified[1] = 0xEE
	err := VerifyOutput(logger, opts, disasmOpts, modified)
	assert.ErrorContains(t, err, "1 offset mismatches")

	err = VerifyOutput(logger, options.Program{}, disasmOpts, testProgram)
	assert.ErrorContains(t, err, "can not verify console output")
}

func TestCheckBufferEqual(t *testing.T) {
	logger := log.NewNop()

	assert.NoError(t, checkBufferEqual(logger, []byte{1, 2}, []byte{1, 2}))
	assert.ErrorContains(t, checkBufferEqual(logger, []byte{1, 2}, []byte{1}), "mismatched lengths")
	assert.ErrorContains(t, checkBufferEqual(logger, []byte{1, 2, 3}, []byte{0, 2, 0}), "2 offset mismatches")
}
