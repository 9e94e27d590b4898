package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/scoutcamp/campo/cmd/app"
)

// @title           Campo API
// @version         1.0
// @description     JSON endpoints of the scout camp manager.
// @BasePath        /api
//
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token
// @description Session token set by POST /login
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
