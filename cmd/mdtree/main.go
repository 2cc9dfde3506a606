// Command mdtree renders Markdown into a docutils-style document tree.
package main

import (
	"os"

	"github.com/elves/mdtree/pkg/prog"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args))
}
