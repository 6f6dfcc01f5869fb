package main

import (
	"os"

	"github.com/reugn/memwarn/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
