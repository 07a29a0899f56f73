package main

import "github.com/sheeladecor/paintsadmin/cmd"

func main() {
	cmd.Execute()
}
