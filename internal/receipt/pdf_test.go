package receipt

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterm/internal/model"
)

func sampleSale() *model.Sale {
	return &model.Sale{
		ID:            uuid.New(),
		CustomerName:  "Maria da Silva",
		PaymentMethod: model.PaymentMoney,
		TotalAmount:   decimal.RequireFromString("37.80"),
		Status:        model.SaleCompleted,
		CreatedAt:     time.Now(),
		Items: []model.SaleItem{
			{ProductID: uuid.New(), Name: "Café 500g", Quantity: 2, UnitPrice: decimal.RequireFromString("18.90")},
			{ProductID: uuid.New(), Name: "Produto com um nome muito comprido para o cupom", Quantity: 1,
				UnitPrice: decimal.RequireFromString("10.00"), Discount: decimal.RequireFromString("10")},
		},
	}
}

func TestGenerateWritesPDF(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(sampleSale(), decimal.RequireFromString("12.20"), dir)

	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// %PDF magic bytes
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerateCreatesStorageDir(t *testing.T) {
	dir := t.TempDir() + "/nested/receipts"

	_, err := Generate(sampleSale(), decimal.Zero, dir)

	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Dinheiro", PaymentLabel(model.PaymentMoney))
	assert.Equal(t, "Fiado", PaymentLabel(model.PaymentFiado))
	// Unknown methods pass through
	assert.Equal(t, "cheque", PaymentLabel("cheque"))
}
