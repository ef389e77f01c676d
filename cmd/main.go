package main

import (
	"os"

	"github.com/MonsieurBarti/quizz-webapp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
