package main

import "github.com/frahmantamala/childcare-management/cmd"

func main() {
	cmd.Execute()
}
