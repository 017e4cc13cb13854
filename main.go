package main

import (
	"log"

	"campus-events-api/core/server"
)

// @title Campus Events API
// @version 1.0
// @description Event registration platform for campus organizers and students.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
