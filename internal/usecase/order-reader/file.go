package orderreader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/HuangeChen/OrderBook/pkg/errors"
	"github.com/shopspring/decimal"
)

// FileReader reads order instructions from a CSV file, one instruction per
// line in the form "id,Type,Side,price,quantity". Read returns io.EOF once
// the file is exhausted.
type FileReader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewFileReader opens the instruction file at path.
func NewFileReader(path string) (*FileReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.FeedOpenError, "failed to open instruction file").Wrap(err)
	}

	return &FileReader{
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

// Read returns the next instruction from the file.
func (r *FileReader) Read(ctx context.Context) (orderv1.Instruction, error) {
	if err := ctx.Err(); err != nil {
		return orderv1.Instruction{}, err
	}

	// skip blank lines
	for {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedReadError, "failed to read instruction file").Wrap(err)
			}
			return orderv1.Instruction{}, io.EOF
		}
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		return ParseLine(line)
	}
}

// Close closes the underlying file.
func (r *FileReader) Close() error {
	return r.file.Close()
}

// ParseLine parses one "id,Type,Side,price,quantity" instruction line.
func ParseLine(line string) (orderv1.Instruction, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedParseError,
			fmt.Sprintf("expected 5 fields, got %d: %q", len(fields), line))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedParseError, "invalid order id").Wrap(err)
	}
	orderType, err := orderv1.ParseType(fields[1])
	if err != nil {
		return orderv1.Instruction{}, err
	}
	side, err := orderv1.ParseSide(fields[2])
	if err != nil {
		return orderv1.Instruction{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(fields[3]))
	if err != nil {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedParseError, "invalid price").Wrap(err)
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return orderv1.Instruction{}, errors.NewTracerWithCode(errors.FeedParseError, "invalid quantity").Wrap(err)
	}

	return orderv1.Instruction{
		ID:       id,
		Type:     orderType,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}, nil
}
