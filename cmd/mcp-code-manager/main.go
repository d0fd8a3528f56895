package main

import "github.com/JavierFrauca/mcp-code-manager/internal/cli"

func main() {
	cli.Execute()
}
