package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blazee-io/blazee-go/cmd"
)

func main() {
	if err := cmd.NewCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
