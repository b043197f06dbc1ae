package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, responses publicCache) *routeHandlers {
	return &routeHandlers{
		healthHandler:  newHealthHandler(),
		projectHandler: newProjectHandler(deps.Content, deps.ProjectFiles, responses),
		productHandler: newProductHandler(deps.Content, deps.ProductFiles, responses),
		orderHandler:   newOrderHandler(deps.Orders),
		adminHandler:   newAdminHandler(deps.Auth, deps.Sessions),
		uploadHandler:  newUploadHandler(),
	}
}
