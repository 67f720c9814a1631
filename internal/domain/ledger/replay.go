package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// ReplayBalance reproduce un libro de cuenta corriente en orden (CreatedAt, Seq)
// partiendo de saldo 0: PURCHASE suma, PAYMENT resta y RESET fija el saldo en
// el valor absoluto del movimiento descartando lo acumulado.
// Devuelve el saldo final y el saldo corrido después de cada entrada, en el
// mismo orden del slice de entrada (el caller garantiza el orden del libro).
func ReplayBalance(movements []*entity.AccountMovement) (decimal.Decimal, []decimal.Decimal) {
	balance := decimal.Zero
	running := make([]decimal.Decimal, len(movements))
	for i, m := range movements {
		switch m.Kind {
		case entity.AccountMovementPurchase:
			balance = balance.Add(m.Amount)
		case entity.AccountMovementPayment:
			balance = balance.Sub(m.Amount)
		case entity.AccountMovementReset:
			balance = m.Amount
		}
		running[i] = balance
	}
	return balance, running
}

// ReplayQuantity reproduce una cadena de movimientos de stock (en orden de libro)
// y devuelve la cantidad resultante: suma neta con signo partiendo de cero.
// Para un libro bien formado coincide con el QuantityAfter del último movimiento.
func ReplayQuantity(movements []*entity.StockMovement) int64 {
	var qty int64
	for _, m := range movements {
		qty += m.SignedQuantity()
	}
	return qty
}

// ChainConsistent verifica que la cadena before/after de un libro de stock sea
// la única historia válida: cada QuantityAfter respeta la dirección y el
// QuantityBefore del siguiente movimiento coincide con el QuantityAfter previo.
func ChainConsistent(movements []*entity.StockMovement) bool {
	for i, m := range movements {
		if m.QuantityBefore+m.SignedQuantity() != m.QuantityAfter || m.QuantityAfter < 0 {
			return false
		}
		if i > 0 && movements[i-1].QuantityAfter != m.QuantityBefore {
			return false
		}
	}
	return true
}
