package ledger

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio ponderado tras una recepción.
// Si no hay existencias previas, el costo pasa a ser el de la recepción.
func WeightedAverageCost(onHand int64, currentCost decimal.Decimal, received int64, unitCost decimal.Decimal) decimal.Decimal {
	if received <= 0 {
		return currentCost
	}
	if onHand <= 0 {
		return unitCost
	}
	prevQty := decimal.NewFromInt(onHand)
	inQty := decimal.NewFromInt(received)
	total := prevQty.Mul(currentCost).Add(inQty.Mul(unitCost))
	return total.Div(prevQty.Add(inQty)).Round(4)
}
