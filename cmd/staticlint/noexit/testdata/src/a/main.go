package main

import (
	"log"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer func() {
		os.Exit(3)
	}()

	if len(os.Args) > 5 {
		log.Fatal("too many arguments")
	}
	helper()
	os.Exit(1) // want "direct os.Exit call in main function"
}
