package main

import (
	"fmt"
	"io"
)

const helpText = `fastloop - batched list rendering with {{key}} templates

Usage:
  fastloop <command> [flags]

Commands:
  render    Render a template against a JSON data array and print the HTML
  lint      List the placeholder names a template expects
  version   Print version information
  help      Show this help

Render flags:
  --template <path>     Template file; may open with YAML frontmatter
                        (batchSize, reuseNodes, validateData). Reads stdin
                        when omitted.
  --data <json>         Inline JSON array of objects
  --data-file <path>    JSON file with an array of objects
  --output <path>       Output file, - for stdout (default -)
  --tag <name>          Container element tag (default div)
  --batch-size <n>      Items per batch
  --reuse               Enable node recycling

Examples:
  fastloop render --template list.html --data '[{"name":"Alice"},{"name":"Bob"}]'
  echo '<li>{{index}}. {{name}}</li>' | fastloop render --data-file users.json --tag ul
  fastloop lint --template list.html
`

func runHelp(args []string, stdout io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(stdout, "unknown command: %s\n\n", args[0])
	}
	fmt.Fprint(stdout, helpText)
	return ExitCodeSuccess
}

func runVersion(stdout io.Writer) int {
	fmt.Fprintf(stdout, "%s %s\n", AppName, AppVersion)
	return ExitCodeSuccess
}
