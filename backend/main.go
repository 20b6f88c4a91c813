package main

import (
	"context"
	"log"

	"learnhub/backend/cmd"
)

func main() {
	if err := cmd.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("learnhub: %v", err)
	}
}
