package orderreader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInstructionFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instructions.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected orderv1.Instruction
		wantErr  bool
	}{
		{
			name: "limit buy",
			line: "1,Limit,Buy,10.5,100",
			expected: orderv1.Instruction{
				ID:       1,
				Type:     orderv1.TypeLimit,
				Side:     orderv1.SideBuy,
				Price:    decimal.RequireFromString("10.5"),
				Quantity: 100,
			},
		},
		{
			name: "market sell ignores price field",
			line: "2,Market,Sell,0,50",
			expected: orderv1.Instruction{
				ID:       2,
				Type:     orderv1.TypeMarket,
				Side:     orderv1.SideSell,
				Price:    decimal.Zero,
				Quantity: 50,
			},
		},
		{
			name: "cancel with NA side",
			line: "7,Cancel,NA,0,0",
			expected: orderv1.Instruction{
				ID:    7,
				Type:  orderv1.TypeCancel,
				Side:  orderv1.SideNone,
				Price: decimal.Zero,
			},
		},
		{name: "too few fields", line: "1,Limit,Buy,10", wantErr: true},
		{name: "unknown type", line: "1,Iceberg,Buy,10,5", wantErr: true},
		{name: "unknown side", line: "1,Limit,Hold,10,5", wantErr: true},
		{name: "bad id", line: "x,Limit,Buy,10,5", wantErr: true},
		{name: "bad price", line: "1,Limit,Buy,ten,5", wantErr: true},
		{name: "bad quantity", line: "1,Limit,Buy,10,many", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inst, err := ParseLine(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.ID, inst.ID)
			assert.Equal(t, tc.expected.Type, inst.Type)
			assert.Equal(t, tc.expected.Side, inst.Side)
			assert.True(t, tc.expected.Price.Equal(inst.Price))
			assert.Equal(t, tc.expected.Quantity, inst.Quantity)
		})
	}
}

func TestFileReader_ReadsInArrivalOrder(t *testing.T) {
	path := writeInstructionFile(t, "1,Limit,Buy,10,5\n\n2,Limit,Sell,9,3\n3,Cancel,NA,0,0\n")

	reader, err := NewFileReader(path)
	require.NoError(t, err)
	defer reader.Close()

	ctx := context.Background()

	first, err := reader.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, orderv1.TypeLimit, first.Type)

	second, err := reader.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, orderv1.SideSell, second.Side)

	third, err := reader.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, orderv1.TypeCancel, third.Type)

	_, err = reader.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileReader_MissingFile(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestFileReader_CancelledContext(t *testing.T) {
	path := writeInstructionFile(t, "1,Limit,Buy,10,5\n")

	reader, err := NewFileReader(path)
	require.NoError(t, err)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = reader.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
