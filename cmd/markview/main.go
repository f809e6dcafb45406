package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	markview "github.com/goliatone/go-markview"
	"github.com/goliatone/go-markview/internal/preview"
)

var errUsage = errors.New("usage: markview <render|serve> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markview: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "render":
		return runRender(args[1:], stdout)
	case "serve":
		return runServe(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

type commonFlags struct {
	file       *string
	prefix     *string
	textBypass *bool
	trace      *bool
	extensions *string
	slugify    *bool
	logProv    *string
	logLevel   *string
	logFormat  *string
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		file:       fs.String("file", "", "Markdown file to render (required)"),
		prefix:     fs.String("prefix", "", "Global prefix for generated ids (defaults to vuemark)"),
		textBypass: fs.Bool("text-bypass", false, "Emit plain text as literal strings"),
		trace:      fs.Bool("trace", false, "Log pass timing at debug level"),
		extensions: fs.String("extensions", "", "Comma separated parser extensions (defaults to gfm,footnote,directive)"),
		slugify:    fs.Bool("slugify", false, "Lowercase and hyphenate heading slugs"),
		logProv:    fs.String("log-provider", "console", "Logging provider: none, console or gologger"),
		logLevel:   fs.String("log-level", "info", "Logging level"),
		logFormat:  fs.String("log-format", "console", "gologger output format: json, console or pretty"),
	}
}

func (f commonFlags) options() []markview.Option {
	cfg := markview.DefaultConfig()
	if *f.prefix != "" {
		cfg.GlobalPrefix = *f.prefix
	}
	cfg.TextBypass = *f.textBypass
	cfg.Trace = *f.trace
	if exts := splitList(*f.extensions); len(exts) > 0 {
		cfg.Parser.Extensions = exts
	}
	cfg.Logging.Provider = *f.logProv
	cfg.Logging.Level = *f.logLevel
	cfg.Logging.Format = *f.logFormat

	opts := []markview.Option{markview.WithConfig(cfg)}
	if *f.slugify {
		opts = append(opts, markview.WithSlugTransform(markview.SlugifyTransform))
	}
	return opts
}

func (f commonFlags) loader() preview.Loader {
	path := *f.file
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func runRender(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	common := registerCommon(fs)
	asJSON := fs.Bool("json", false, "Print the full render result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *common.file == "" {
		return errors.New("--file is required")
	}

	source, err := common.loader()()
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}

	resp, err := preview.Render(source, common.options()...)
	if err != nil && resp.HTML == "" {
		return fmt.Errorf("render markdown: %w", err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Frontmatter != "" {
		fmt.Fprintf(stdout, "Frontmatter:\n%s\n\n", resp.Frontmatter)
	}
	fmt.Fprintf(stdout, "%s\n", resp.HTML)
	if resp.FootnotesHTML != "" {
		fmt.Fprintf(stdout, "%s\n", resp.FootnotesHTML)
	}
	for _, d := range resp.Diagnostics {
		fmt.Fprintf(stdout, "diagnostic: %s\n", d.Error())
	}
	return err
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	common := registerCommon(fs)
	addr := fs.String("addr", ":8080", "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *common.file == "" {
		return errors.New("--file is required")
	}

	opts := common.options()
	cfg := markview.DefaultConfig()
	cfg.Logging.Provider = *common.logProv
	cfg.Logging.Level = *common.logLevel
	cfg.Logging.Format = *common.logFormat
	provider, err := cfg.Logging.LoggerProvider()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           preview.NewServer(common.loader(), provider, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("markview preview of %s on %s", *common.file, *addr)
	return srv.ListenAndServe()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
