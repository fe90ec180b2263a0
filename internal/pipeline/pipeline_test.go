package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testProgram = []byte{
	0x60, 0xFF, // ld V0, $FF
	0x12, 0x06, // jp $206
	0xFF, 0xFF, // data
	0x00, 0xEE, // ret
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
}

//nolint:funlen // test functions can be long
func TestExecute(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	tmpFile := createTempFile(t, testProgram)

	t.Run("execute pipeline successfully", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
			Flags:      options.Flags{Quiet: true},
		}
		disasmOpts := options.NewDisassembler()

		var buf bytes.Buffer
		result, err := p.Execute(context.Background(), opts, disasmOpts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, Result{Instructions: 3, Placeholders: 2}, result)
		assert.Equal(t, "200: ld V0, $FF\n202: jp $206\n204: .byte $FF\n205: .byte $FF\n206: ret\n", buf.String())
	})

	t.Run("execute with trace mode", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}
		disasmOpts := options.NewDisassembler()
		disasmOpts.Trace = true

		var buf bytes.Buffer
		result, err := p.Execute(context.Background(), opts, disasmOpts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, Result{Instructions: 3}, result)
		assert.Equal(t, "200: ld V0, $FF\n202: jp $206\n206: ret\n", buf.String())
	})

	t.Run("execute with verification", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "test.asm")
		file, err := os.Create(output)
		assert.NoError(t, err)
		defer func() { _ = file.Close() }()

		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile, Output: output},
			Flags:      options.Flags{AssembleTest: true, Quiet: true},
		}

		_, err = p.Execute(context.Background(), opts, options.NewDisassembler(), file)
		assert.NoError(t, err)
	})

	t.Run("execute with cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
			Flags:      options.Flags{Quiet: true},
		}

		var buf bytes.Buffer
		_, err := p.Execute(ctx, opts, options.NewDisassembler(), &buf)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("execute with non-existent file", func(t *testing.T) {
		opts := options.Program{
			Parameters: options.Parameters{Input: "/nonexistent/file.ch8"},
			Flags:      options.Flags{Quiet: true},
		}

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, options.NewDisassembler(), &buf)
		assert.Error(t, err)
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
