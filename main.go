package main

import (
	"community-calendar/core/logger"
	"community-calendar/core/server"
)

// @title Community Calendar API
// @version 1.0
// @description API backend for the community event calendar

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /api

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
