package main

import (
	"opportunity-search-api/app"
)

func main() {
	app.Run()
}
