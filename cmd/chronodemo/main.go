package main

import "github.com/tempolab/chrono/cmd/chronodemo/cmd"

func main() {
	cmd.Execute()
}
