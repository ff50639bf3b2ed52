package domain

// ApplyDiscount computes the discount and final amount for an order subtotal.
// Percent discounts floor to the whole monetary unit; the discount never
// exceeds the subtotal, so the final amount never goes negative. A nil
// promotion means no discount.
func ApplyDiscount(p *Promotion, subtotal int64) (discount, final int64) {
	if p == nil || subtotal <= 0 {
		if subtotal < 0 {
			subtotal = 0
		}
		return 0, subtotal
	}
	switch p.Type {
	case DiscountPercent:
		discount = subtotal * p.Value / 100
	case DiscountFixed:
		discount = p.Value
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, subtotal - discount
}
