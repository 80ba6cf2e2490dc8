package main

import "github.com/mlombardi/issueflow/internal/cli"

func main() {
	cli.Execute()
}
