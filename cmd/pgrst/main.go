package main

import "github.com/pgrst/postgrest-query-go/internal/cli"

func main() {
	cli.Main()
}
