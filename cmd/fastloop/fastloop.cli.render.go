package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	fastloop "github.com/nghiaomg/go-fastloop"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
	containerTag string
	batchSize    int
	reuseNodes   bool
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	cfg := &renderConfig{}
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "template file path (frontmatter-aware)")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "data as inline JSON array")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "data as a JSON file")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "output path, - for stdout")
	fs.StringVar(&cfg.containerTag, FlagTag, FlagDefaultTag, "container element tag")
	fs.IntVar(&cfg.batchSize, FlagBatchSize, 0, "items per batch (0 keeps the template/default value)")
	fs.BoolVar(&cfg.reuseNodes, FlagReuse, false, "enable node recycling")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFlags, err)
		return ExitCodeUsageError
	}

	tmpl, opts, err := loadTemplate(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadTemplate, err)
		return ExitCodeInputError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	container := fastloop.NewContainer(cfg.containerTag)
	opts = append(opts,
		fastloop.WithContainer(container),
		fastloop.WithTemplate(tmpl),
		fastloop.WithData(data),
	)
	// flags only tighten what frontmatter configured
	if cfg.reuseNodes {
		opts = append(opts, fastloop.WithReuseNodes(true))
	}
	if cfg.batchSize > 0 {
		opts = append(opts, fastloop.WithBatchSize(cfg.batchSize))
	}

	r, err := fastloop.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}
	defer r.Destroy()

	if err := r.Render(context.Background()); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	markup, err := r.HTML()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, markup, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutput, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

// loadTemplate resolves the template from a file (frontmatter-aware) or from
// stdin when no path is given.
func loadTemplate(path string, stdin io.Reader) (fastloop.TemplateSource, []fastloop.Option, error) {
	if path != "" {
		return fastloop.LoadTemplateFile(path)
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, nil, err
	}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return nil, nil, fmt.Errorf(ErrMsgNoTemplateSrc)
	}
	return fastloop.TemplateString(body), nil, nil
}

// loadData parses the data sequence from inline JSON or a JSON file.
func loadData(inline, path string) ([]fastloop.Item, error) {
	var raw []byte
	switch {
	case inline != "":
		raw = []byte(inline)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, fmt.Errorf(ErrMsgNoDataSource)
	}

	var items []fastloop.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func writeOutput(path, markup string, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := fmt.Fprintln(stdout, markup)
		return err
	}
	return os.WriteFile(path, []byte(markup+"\n"), 0o644)
}
