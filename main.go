package main

import "github.com/ValentinKolb/gcmap/cmd"

func main() {
	cmd.Execute()
}
