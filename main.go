package main

import (
	"socketBoard/cmd/app"
)

// @title           socketBoard API
// @description     Real-time collaborative board session server.
// @BasePath        /
func main() {
	app.GetApp().LetsGo()
}
