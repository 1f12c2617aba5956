package main

import (
	"log"

	"github.com/yantology/linkfy/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkfy failed to start: %v", err)
	}
}
