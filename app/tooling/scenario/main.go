package main

import "github.com/utxonet/utxonet/app/tooling/scenario/cmd"

func main() {
	cmd.Execute()
}
