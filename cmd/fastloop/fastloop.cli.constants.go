package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameLint    = "lint"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names
const (
	FlagTemplate  = "template"
	FlagData      = "data"
	FlagDataFile  = "data-file"
	FlagOutput    = "output"
	FlagTag       = "tag"
	FlagBatchSize = "batch-size"
	FlagReuse     = "reuse"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultTag    = "div"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 3
)

// Version information
const (
	AppName    = "fastloop"
	AppVersion = "1.0.0"
)

// Error message constants
const (
	ErrMsgParseFlags    = "invalid arguments"
	ErrMsgReadTemplate  = "failed to read template"
	ErrMsgInvalidJSON   = "failed to parse data JSON"
	ErrMsgRenderFailed  = "render failed"
	ErrMsgWriteOutput   = "failed to write output"
	ErrMsgNoDataSource  = "provide data via --data or --data-file"
	ErrMsgNoTemplateSrc = "provide a template via --template or stdin"
)

// Format strings
const (
	FmtErrorWithCause = "Error: %s: %v\n"
	FmtError          = "Error: %s\n"
)
