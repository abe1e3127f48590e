// Package main provides the CLI entrypoint for ulala.
package main

func main() {
	Execute()
}
