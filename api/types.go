package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler  healthHandler
	projectHandler projectHandler
	productHandler productHandler
	orderHandler   orderHandler
	adminHandler   adminHandler
	uploadHandler  uploadHandler
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OKResponse acknowledges a request that has nothing else to return.
type OKResponse struct {
	OK bool `json:"ok"`
}

type createdResponse struct {
	OK bool `json:"ok"`
	ID uint `json:"id"`
}

type dataResponse[T any] struct {
	Data T `json:"data"`
}
