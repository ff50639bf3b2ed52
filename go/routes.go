package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc used when a route is not implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions aggregates the per-context API handler sets.
type ApiHandleFunctions struct {
	BooksAPI      BooksAPI
	PromotionsAPI PromotionsAPI
	OrdersAPI     OrdersAPI
	UsersAPI      UsersAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListBooks",
			http.MethodGet,
			"/v2/books",
			handleFunctions.BooksAPI.ListBooks,
		},
		{
			"AddBook",
			http.MethodPost,
			"/v2/books",
			handleFunctions.BooksAPI.AddBook,
		},
		{
			"GetBookById",
			http.MethodGet,
			"/v2/books/:bookId",
			handleFunctions.BooksAPI.GetBookById,
		},
		{
			"UpdateBook",
			http.MethodPut,
			"/v2/books/:bookId",
			handleFunctions.BooksAPI.UpdateBook,
		},
		{
			"DeleteBook",
			http.MethodDelete,
			"/v2/books/:bookId",
			handleFunctions.BooksAPI.DeleteBook,
		},
		{
			"RestockBook",
			http.MethodPost,
			"/v2/books/:bookId/restock",
			handleFunctions.BooksAPI.RestockBook,
		},
		{
			"ListAvailableBooks",
			http.MethodGet,
			"/v2/promotions/available-books",
			handleFunctions.PromotionsAPI.ListAvailableBooks,
		},
		{
			"ListPromotions",
			http.MethodGet,
			"/v2/promotions",
			handleFunctions.PromotionsAPI.ListPromotions,
		},
		{
			"CreatePromotion",
			http.MethodPost,
			"/v2/promotions",
			handleFunctions.PromotionsAPI.CreatePromotion,
		},
		{
			"GetPromotionById",
			http.MethodGet,
			"/v2/promotions/:promotionId",
			handleFunctions.PromotionsAPI.GetPromotionById,
		},
		{
			"UpdatePromotion",
			http.MethodPut,
			"/v2/promotions/:promotionId",
			handleFunctions.PromotionsAPI.UpdatePromotion,
		},
		{
			"DeletePromotion",
			http.MethodDelete,
			"/v2/promotions/:promotionId",
			handleFunctions.PromotionsAPI.DeletePromotion,
		},
		{
			"CreateInvoice",
			http.MethodPost,
			"/v2/invoices",
			handleFunctions.OrdersAPI.CreateInvoice,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/v2/orders",
			handleFunctions.OrdersAPI.ListOrders,
		},
		{
			"ConfirmOrders",
			http.MethodPatch,
			"/v2/orders/confirm",
			handleFunctions.OrdersAPI.ConfirmOrders,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/v2/orders/:orderId",
			handleFunctions.OrdersAPI.GetOrderById,
		},
		{
			"AssignShipper",
			http.MethodPost,
			"/v2/orders/:orderId/assign-shipper",
			handleFunctions.OrdersAPI.AssignShipper,
		},
		{
			"UnassignShipper",
			http.MethodPost,
			"/v2/orders/:orderId/unassign-shipper",
			handleFunctions.OrdersAPI.UnassignShipper,
		},
		{
			"CompleteDelivery",
			http.MethodPatch,
			"/v2/orders/:orderId/complete",
			handleFunctions.OrdersAPI.CompleteDelivery,
		},
		{
			"CancelOrder",
			http.MethodPatch,
			"/v2/orders/:orderId/cancel",
			handleFunctions.OrdersAPI.CancelOrder,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/v2/users",
			handleFunctions.UsersAPI.ListUsers,
		},
		{
			"CreateUser",
			http.MethodPost,
			"/v2/users",
			handleFunctions.UsersAPI.CreateUser,
		},
		{
			"ListShippers",
			http.MethodGet,
			"/v2/users/shippers",
			handleFunctions.UsersAPI.ListShippers,
		},
		{
			"ListUsersByRole",
			http.MethodGet,
			"/v2/users/role/:roleId",
			handleFunctions.UsersAPI.ListUsersByRole,
		},
		{
			"GetUserById",
			http.MethodGet,
			"/v2/users/:userId",
			handleFunctions.UsersAPI.GetUserById,
		},
		{
			"UpdateUser",
			http.MethodPut,
			"/v2/users/:userId",
			handleFunctions.UsersAPI.UpdateUser,
		},
		{
			"DeleteUser",
			http.MethodDelete,
			"/v2/users/:userId",
			handleFunctions.UsersAPI.DeleteUser,
		},
	}
}
