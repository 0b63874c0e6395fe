package main

import (
	"fmt"
	"os"

	"github.com/yungbote/clientcontacts-backend/cmd/clientcontacts/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
