package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler   *AuthHandler
	StoreHandler  *StoreHandler
	RatingHandler *RatingHandler
	UserHandler   *UserHandler
	AdminHandler  *AdminHandler
	HealthHandler *HealthHandler
}
