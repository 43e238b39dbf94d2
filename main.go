package main

import "github.com/sarchlab/blockdma/cmd"

func main() {
	cmd.Execute()
}
