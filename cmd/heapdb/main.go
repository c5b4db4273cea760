/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/heapdb/cmd/heapdb/cmd"

func main() {
	cmd.Execute()
}
