package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-processor/internal/domain/order"
	"github.com/xenking/order-processor/internal/storage/file"
)

const premiumOrder = `{
	"CustomerName": "Test User",
	"Email": "test@example.com",
	"CustomerType": "Premium",
	"Items": [{"ProductName": "Item1", "Price": 100, "Quantity": 2}]
}`

// workdir runs the test in an empty directory so the default orders.json
// and log.txt land there.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRun_Stdin(t *testing.T) {
	dir := workdir(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), strings.NewReader(premiumOrder), &out, "", ""))

	assert.Equal(t, "Email sent to test@example.com\n", out.String())

	orders, err := file.Load(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "160", orders[0].Total.String())

	logData, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	require.NoError(t, err)
	assert.Regexp(t, `^Order processed at .+\n$`, string(logData))
}

func TestRun_FileAndArray(t *testing.T) {
	dir := workdir(t)
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte("["+premiumOrder+","+premiumOrder+"]"), 0o644))
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), strings.NewReader(""), &out, "", input))
	require.NoError(t, run(context.Background(), strings.NewReader(premiumOrder), &out, "", "-"))

	orders, err := file.Load(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, 3, strings.Count(out.String(), "Email sent to test@example.com\n"))
}

func TestRun_EmptyItems(t *testing.T) {
	dir := workdir(t)
	var out bytes.Buffer

	err := run(context.Background(), strings.NewReader(`{"Email": "a@b.c", "Items": []}`), &out, "", "")

	require.ErrorIs(t, err, order.ErrEmptyItems)
	assert.Empty(t, out.String())
	assert.NoFileExists(t, filepath.Join(dir, "orders.json"))
	assert.NoFileExists(t, filepath.Join(dir, "log.txt"))
}

func TestRun_Strict(t *testing.T) {
	dir := workdir(t)
	t.Setenv("ORDERS_STRICT_CUSTOMER_TYPE", "true")

	err := run(context.Background(),
		strings.NewReader(`{"CustomerType": "Gold", "Items": [{"Price": 1, "Quantity": 1}]}`),
		&bytes.Buffer{}, "", "")

	var verr *order.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NoFileExists(t, filepath.Join(dir, "orders.json"))
}

func TestRun_BadInput(t *testing.T) {
	workdir(t)

	tests := []struct {
		name  string
		input string
		path  string
	}{
		{name: "empty stdin", input: ""},
		{name: "malformed", input: `{"Items": [`},
		{name: "trailing text", input: premiumOrder + " not json"},
		{name: "two documents", input: premiumOrder + `{"Email": "c@d"}`},
		{name: "missing file", path: "missing.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), strings.NewReader(tt.input), &out, "", tt.path)
			require.Error(t, err)
			assert.Empty(t, out.String())
			assert.NoFileExists(t, "orders.json")
		})
	}
}
