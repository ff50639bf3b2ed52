package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Event is a requested order transition.
type Event string

const (
	EventConfirm         Event = "confirm"
	EventAssignShipper   Event = "assign_shipper"
	EventUnassignShipper Event = "unassign_shipper"
	EventComplete        Event = "complete"
	EventCancel          Event = "cancel"
)

// transitions is the full table of legal (status, event) pairs. Anything not
// listed fails with *InvalidTransitionError and causes no side effect.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventAssignShipper: StatusDelivering,
		EventCancel:        StatusCancelled,
	},
	StatusDelivering: {
		EventComplete:        StatusDelivered,
		EventUnassignShipper: StatusConfirmed,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrNoLines          = errors.New("order must contain at least one line item")
	ErrInvalidQuantity  = errors.New("line quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("line unit price must not be negative")
	ErrNegativeDiscount = errors.New("discount amount must not be negative")
)

// InvalidTransitionError names the current status and the rejected event.
type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %q to order in status %q", e.Event, e.From)
}

// NextStatus resolves the transition table for a (status, event) pair.
func NextStatus(from Status, event Event) (Status, error) {
	if !isValidStatus(from) {
		return "", ErrInvalidStatus
	}
	to, ok := transitions[from][event]
	if !ok {
		return "", &InvalidTransitionError{From: from, Event: event}
	}
	return to, nil
}

// Terminal reports whether no further transition is defined for the status.
func (s Status) Terminal() bool {
	return isValidStatus(s) && len(transitions[s]) == 0
}

func isValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// LineItem is one ordered book position. UnitPrice is a snapshot of the book
// price at order time and never changes afterwards.
type LineItem struct {
	BookID    int64
	Quantity  int32
	UnitPrice int64
}

func (li LineItem) Subtotal() int64 {
	return int64(li.Quantity) * li.UnitPrice
}

// Order models a customer purchase. Orders are never deleted, only
// transitioned until they reach a terminal status.
type Order struct {
	ID              int64
	Status          Status
	Lines           []LineItem
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	PromotionID     *int64
	TotalAmount     int64
	DiscountAmount  int64
	FinalAmount     int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder validates lines, computes the amounts, and starts the order pending.
func NewOrder(lines []LineItem, customerName, customerPhone, shippingAddress, paymentMethod string, promotionID *int64, discount int64) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if discount < 0 {
		return nil, ErrNegativeDiscount
	}
	var total int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPrice < 0 {
			return nil, ErrInvalidUnitPrice
		}
		total += line.Subtotal()
	}
	if discount > total {
		discount = total
	}
	return &Order{
		Status:          StatusPending,
		Lines:           append([]LineItem(nil), lines...),
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		PromotionID:     promotionID,
		TotalAmount:     total,
		DiscountAmount:  discount,
		FinalAmount:     total - discount,
	}, nil
}

// Apply transitions the order in place after consulting the table.
func (o *Order) Apply(event Event) error {
	next, err := NextStatus(o.Status, event)
	if err != nil {
		return err
	}
	o.Status = next
	return nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	var total int64
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if line.UnitPrice < 0 {
			return ErrInvalidUnitPrice
		}
		total += line.Subtotal()
	}
	if o.DiscountAmount < 0 || o.DiscountAmount > total {
		return ErrNegativeDiscount
	}
	return nil
}
