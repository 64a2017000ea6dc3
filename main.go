package main

import "github.com/gurdipscode/portfolio/cmd"

func main() {
	cmd.Execute()
}
