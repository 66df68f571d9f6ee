package main

import (
	"github.com/byxorna/notepad/cmd"
)

func main() {
	cmd.Execute()
}
