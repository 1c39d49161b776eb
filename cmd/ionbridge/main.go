package main

import "github.com/JupiterMetaLabs/ionbridge/internal/cli"

func main() {
	cli.Execute()
}
