package main

import "github.com/xvierd/purrmodoro/cmd"

func main() {
	cmd.Execute()
}
