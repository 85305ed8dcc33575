package main

import "ghostsapi/internal/app"

// @title           Ghosts: Auth User - API
// @version         1.0.0
// @description     API for user authentication and users with addresses.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
