package main

import "metro-rent-assistant/cli"

func main() {
	cli.Execute()
}
