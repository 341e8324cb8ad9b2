package main

import "github.com/yapay-ai/api-rate-guardian/internal/cli"

func main() {
	cli.Execute()
}
