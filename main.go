package main

import (
	"github.com/fpgatools/fasm2bit/cmd"
)

func main() {
	cmd.Execute()
}
