package main

import (
	"log"

	"github.com/notetube/notetube/internal/server"
)

func main() {
	server := server.NewServer()
	if err := server.Run(); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
