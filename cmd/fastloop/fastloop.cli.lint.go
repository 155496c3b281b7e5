package main

import (
	"flag"
	"fmt"
	"io"

	fastloop "github.com/nghiaomg/go-fastloop"
	"github.com/nghiaomg/go-fastloop/internal"
)

// runLint reads a template and lists its distinct placeholder names, so data
// producers can see which keys a template expects.
func runLint(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(CmdNameLint, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	templatePath := fs.String(FlagTemplate, "", "template file path")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFlags, err)
		return ExitCodeUsageError
	}

	tmpl, _, err := loadTemplate(*templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadTemplate, err)
		return ExitCodeInputError
	}

	// One-item probe renderer gives us the cached, extracted template body.
	probe, err := fastloop.New(
		fastloop.WithContainer(fastloop.NewContainer("")),
		fastloop.WithTemplate(tmpl),
	)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadTemplate, err)
		return ExitCodeInputError
	}
	defer probe.Destroy()

	names := internal.PlaceholderNames(probe.Template())
	for _, name := range names {
		marker := ""
		if name == fastloop.ReservedIndexName {
			marker = " (reserved: 1-based position)"
		}
		fmt.Fprintf(stdout, "%s%s\n", name, marker)
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "no placeholders")
	}
	return ExitCodeSuccess
}
