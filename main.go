package main

import (
	"os"

	"github.com/rizqme/hype/cmd/root"
)

func main() {
	os.Exit(root.Execute())
}
