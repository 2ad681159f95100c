// @title           Store Rating API
// @version         1.0
// @description     API оценок магазинов: регистрация, каталог магазинов, оценки, администрирование.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import "store_rating_backend/internal/app"

func main() {
	app.Run()
}
