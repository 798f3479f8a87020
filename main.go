package main

import "github.com/secretscout/secretscout/cmd/secretscout"

func main() {
	secretscout.Execute()
}
