// Package pipeline orchestrates the disassembly workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Result contains statistics of a disassembly run.
type Result struct {
	Instructions int // number of decoded instructions
	Placeholders int // number of data placeholders
}

// Pipeline orchestrates the complete disassembly workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new disassembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute runs the complete disassembly pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	output io.Writer) (Result, error) {

	data, err := p.loader.Load(opts.Input)
	if err != nil {
		return Result{}, fmt.Errorf("loading program: %w", err)
	}

	return p.ExecuteWithData(ctx, data, opts, disasmOpts, output)
}

// ExecuteWithData runs the disassembly pipeline with a pre-loaded program image.
// This is useful for testing and programmatic usage where the image is already in memory.
func (p *Pipeline) ExecuteWithData(ctx context.Context, data []byte, opts options.Program,
	disasmOpts options.Disassembler, output io.Writer) (Result, error) {

	p.printInfo(opts, disasmOpts, data)

	dis := disasm.New(p.logger, data, disasmOpts.Base, disasm.Options{
		Trace: disasmOpts.Trace,
	})

	result, err := p.runDisassembly(ctx, dis, data, disasmOpts, output)
	if err != nil {
		return Result{}, fmt.Errorf("disassembling: %w", err)
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(p.logger, opts, disasmOpts, data); err != nil {
			return Result{}, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

// runDisassembly writes all entries of the disassembler to the output.
func (p *Pipeline) runDisassembly(ctx context.Context, dis *disasm.Disasm, data []byte,
	disasmOpts options.Disassembler, output io.Writer) (Result, error) {

	var (
		result  Result
		ctxErr  error
		entries iter.Seq[disasm.Entry] = func(yield func(disasm.Entry) bool) {
			for entry := range dis.Entries() {
				if ctxErr = ctx.Err(); ctxErr != nil {
					return
				}
				if entry.Valid {
					result.Instructions++
				} else {
					result.Placeholders++
				}
				if !yield(entry) {
					return
				}
			}
		}
	)

	w := writer.New(output, writer.Options{
		HexComments: disasmOpts.HexComments,
		Header:      disasmOpts.Header,
	})
	if err := w.Write(data, disasmOpts.Base, entries); err != nil {
		return Result{}, fmt.Errorf("writing listing: %w", err)
	}
	if ctxErr != nil {
		return Result{}, ctxErr
	}

	p.logger.Debug("Disassembly written",
		log.Int("instructions", result.Instructions),
		log.Int("placeholders", result.Placeholders))
	return result, nil
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, disasmOpts options.Disassembler, data []byte) {
	if opts.Quiet {
		return
	}

	mode := "linear"
	if disasmOpts.Trace {
		mode = "trace"
	}
	p.logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(data)),
		log.Hex("base", disasmOpts.Base),
		log.String("mode", mode),
	)
}
