package till

import (
	"github.com/shopspring/decimal"

	"posterm/internal/model"
)

// Balance derives the drawer balance from the opening float and the
// movement ledger:
//
//	initial + Σ(sale, deposit) − Σ(withdrawal, expense)
//
// Exact decimal arithmetic throughout — cent drift across a day of
// movements is the one numeric bug a till cannot afford. The derivation
// holds for any prefix of the ledger, so it can be recomputed after every
// movement.
func Balance(initial decimal.Decimal, movements []model.Movement) decimal.Decimal {
	balance := initial
	for _, m := range movements {
		switch m.Type {
		case model.MovementSale, model.MovementDeposit:
			balance = balance.Add(m.Amount)
		case model.MovementWithdrawal, model.MovementExpense:
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}

// TotalByType sums the amounts of one movement type, for the summary cards.
func TotalByType(movements []model.Movement, kind string) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.Type == kind {
			total = total.Add(m.Amount)
		}
	}
	return total
}
