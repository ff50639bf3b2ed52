package bookstoreserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

// BooksAPI wires HTTP transport with the catalog bounded context.
type BooksAPI struct {
	service catalogports.Service
}

// NewBooksAPI creates a BooksAPI backed by the provided service.
func NewBooksAPI(service catalogports.Service) BooksAPI {
	return BooksAPI{service: service}
}

// Book is the wire shape of a catalog book.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author"`
	Price  int64  `json:"price"`
	Stock  int32  `json:"stock"`
}

func fromBook(book *catalogdomain.Book) Book {
	return Book{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Price:  book.Price,
		Stock:  book.Stock,
	}
}

func fromBookList(books []*catalogdomain.Book) []Book {
	out := make([]Book, 0, len(books))
	for _, book := range books {
		out = append(out, fromBook(book))
	}
	return out
}

// Get /v2/books
// List the catalog
func (api *BooksAPI) ListBooks(c *gin.Context) {
	books, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromBookList(books))
}

// Get /v2/books/:bookId
// Find book by ID
func (api *BooksAPI) GetBookById(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	book, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromBook(book))
}

// Post /v2/books
// Add a new book to the catalog
func (api *BooksAPI) AddBook(c *gin.Context) {
	var payload Book
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book := &catalogdomain.Book{
		ID:     payload.ID,
		Title:  payload.Title,
		Author: payload.Author,
		Price:  payload.Price,
		Stock:  payload.Stock,
	}
	saved, err := api.service.AddBook(c.Request.Context(), book)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromBook(saved))
}

// Put /v2/books/:bookId
// Update an existing book; stock is owned by the reservation ledger and is not
// written here.
func (api *BooksAPI) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	var payload Book
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book := &catalogdomain.Book{
		Title:  payload.Title,
		Author: payload.Author,
		Price:  payload.Price,
	}
	updated, err := api.service.UpdateBook(c.Request.Context(), id, book)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromBook(updated))
}

// Delete /v2/books/:bookId
// Remove a book from the catalog
func (api *BooksAPI) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v2/books/:bookId/restock
// Add received copies to a book's stock
func (api *BooksAPI) RestockBook(c *gin.Context) {
	id, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}
	var payload struct {
		Quantity int32 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book, err := api.service.Restock(c.Request.Context(), id, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromBook(book))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
