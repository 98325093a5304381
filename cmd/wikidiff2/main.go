// Command wikidiff2 prints the HTML table diff of two local files to
// stdout, the same markup the wikidiff2d web service renders.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wmde/wikidiff2/pkg/wikidiff2"
)

func main() {
	contextLines := flag.Int("c", 3, "number of context lines around each change")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: wikidiff2 [-c N] <old> <new>")
		os.Exit(2)
	}

	oldText, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	newText, err := os.ReadFile(flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	table := wikidiff2.Execute(string(oldText), string(newText), *contextLines)
	fmt.Println("<table class=\"diff\">")
	fmt.Print(table)
	fmt.Println("</table>")
}
