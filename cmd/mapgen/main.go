// Command mapgen evaluates noise graph scripts and exports their output as
// heightmaps or meshes.
package main

func main() {
	Execute()
}
