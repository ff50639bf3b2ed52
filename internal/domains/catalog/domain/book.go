package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("book title must not be empty")
	ErrNegativePrice = errors.New("book price must not be negative")
	ErrNegativeStock = errors.New("book stock must not be negative")
)

// Book models a catalog entry. Stock is mutated only through the reservation ledger.
type Book struct {
	ID        int64
	Title     string
	Author    string
	Price     int64
	Stock     int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook validates and constructs a new Book aggregate.
func NewBook(id int64, title, author string, price int64, stock int32) (*Book, error) {
	book := &Book{
		ID:     id,
		Title:  title,
		Author: author,
		Price:  price,
		Stock:  stock,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate enforces invariants on the aggregate.
func (b *Book) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if b.Price < 0 {
		return ErrNegativePrice
	}
	if b.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
