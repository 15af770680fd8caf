package main

import "ctxllm/cmd"

func main() {
	cmd.Execute()
}
