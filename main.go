package main

import "github.com/wsmxd/mxdblog/cmd"

func main() {
	cmd.Execute()
}
