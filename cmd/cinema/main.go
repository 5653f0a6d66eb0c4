package main

import "github.com/iliyamo/cinema-showtime-service/internal/command"

func main() {
	command.Execute()
}
