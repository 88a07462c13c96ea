package main

import "github.com/mselser95/futures-bot/cmd"

func main() {
	cmd.Execute()
}
