// Package writer implements the disassembly listing output.
package writer

import (
	"fmt"
	"hash/crc32"
	"io"
	"iter"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
)

// Options of the writer.
type Options struct {
	HexComments bool // append the raw bytes of every entry as comment
	Header      bool // write a comment header with checksum and addresses
}

// Writer writes disassembly entries as listing lines in the format
// "ADDR: text", for example "200: ld V0, $FF".
type Writer struct {
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Write writes the optional header followed by all entries.
func (w Writer) Write(data []byte, base uint16, entries iter.Seq[disasm.Entry]) error {
	if w.options.Header {
		if err := w.WriteCommentHeader(data, base); err != nil {
			return err
		}
	}

	for entry := range entries {
		if err := w.WriteEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

// WriteCommentHeader writes the CRC32 checksum, base address and size of the
// program as comments to the output.
func (w Writer) WriteCommentHeader(data []byte, base uint16) error {
	crc32q := crc32.MakeTable(crc32.IEEE)
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n", crc32.Checksum(data, crc32q)); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Base address: $%03X\n", base); err != nil {
		return fmt.Errorf("writing base address: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Size: %d bytes\n\n", len(data)); err != nil {
		return fmt.Errorf("writing size: %w", err)
	}
	return nil
}

// WriteEntry writes a single listing line.
func (w Writer) WriteEntry(entry disasm.Entry) error {
	line := fmt.Sprintf("%03X: %s", entry.Address, entry.Text)

	var err error
	if w.options.HexComments {
		_, err = fmt.Fprintf(w.writer, "%-24s ; %s\n", line, hexBytes(entry.Data))
	} else {
		_, err = fmt.Fprintf(w.writer, "%s\n", line)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func hexBytes(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}
