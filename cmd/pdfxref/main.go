// Command pdfxref inspects the object structure of PDF files.
package main

import "github.com/tsawler/pdfxref/internal/cli"

func main() {
	cli.Execute()
}
