package main

import "github.com/htwg-in-schneider/frontend-cooked/cmd/cooked/cmd"

func main() {
	cmd.Execute()
}
