package main

import (
	"os"

	"github.com/mrops-br/storefront-cart/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
