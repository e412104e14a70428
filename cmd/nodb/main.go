package main

import (
	"os"

	"github.com/nodb-io/nodb-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
