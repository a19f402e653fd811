package main

import "github.com/redactyl/imgstrip/cmd/imgstrip"

func main() { imgstrip.Execute() }
