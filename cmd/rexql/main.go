package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MechanicalRabbit/RexDB/internal/eventbus"
	"github.com/MechanicalRabbit/RexDB/internal/fieldspec"
	"github.com/MechanicalRabbit/RexDB/internal/introspection"
	"github.com/MechanicalRabbit/RexDB/internal/otel"
	"github.com/MechanicalRabbit/RexDB/internal/resource"
	"github.com/MechanicalRabbit/RexDB/internal/schema"
	"github.com/MechanicalRabbit/RexDB/internal/synth"
	"github.com/MechanicalRabbit/RexDB/internal/transport"
)

const rootUsage = `rexql — schema-driven GraphQL query tools

USAGE:
  rexql <command> [flags]

COMMANDS:
  synthesize       Build a query document for a dotted field path
  fetch            Synthesize a query and execute it against the endpoint
  introspect       Dump the endpoint's introspection result as JSON
  help             Show help for any command

The endpoint may also be set through the REXQL_ENDPOINT environment
variable (a .env file in the working directory is honored).
`

const synthesizeUsage = `synthesize FLAGS:
  -endpoint <url>          GraphQL endpoint to introspect
  -schema.file <file>      Introspection JSON file to use instead of -endpoint
  -path <dotted.path>      Traversal path from the query root (default: empty)
  -require <key=field>     Explicit field spec entry. Repeatable; omit for
                           implicit derivation from the target type
  -timeout <duration>      Introspection request timeout (default: 10s)
`

const fetchUsage = `fetch FLAGS:
  -endpoint <url>          GraphQL endpoint (required unless REXQL_ENDPOINT)
  -path <dotted.path>      Traversal path from the query root (default: empty)
  -require <key=field>     Explicit field spec entry. Repeatable
  -var <name=value>        Query variable. Values parse as JSON, falling back
                           to plain strings. Repeatable
  -timeout <duration>      Per-request timeout (default: 10s)
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: rexql)
`

const introspectUsage = `introspect FLAGS:
  -endpoint <url>          GraphQL endpoint (required unless REXQL_ENDPOINT)
  -out <file>              Write introspection JSON to file (default: stdout)
  -timeout <duration>      Request timeout (default: 10s)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	global := flag.NewFlagSet("rexql", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "synthesize":
		return cmdSynthesize(cmdArgs)
	case "fetch":
		return cmdFetch(cmdArgs)
	case "introspect":
		return cmdIntrospect(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "synthesize":
		fmt.Print(synthesizeUsage)
	case "fetch":
		fmt.Print(fetchUsage)
	case "introspect":
		fmt.Print(introspectUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// requireFlag accumulates -require key=field entries into a field config.
type requireFlag struct {
	cfg fieldspec.Config
}

func (r *requireFlag) String() string { return "" }

func (r *requireFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid require %q, want key=field", v)
	}
	if r.cfg == nil {
		r.cfg = fieldspec.Config{}
	}
	r.cfg[parts[0]] = fieldspec.Spec{Require: fieldspec.Requirement{Field: parts[1]}}
	return nil
}

// varFlag accumulates -var name=value entries into a variables object.
type varFlag struct {
	m map[string]any
}

func (f *varFlag) String() string { return "" }

func (f *varFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return fmt.Errorf("invalid var %q, want name=value", v)
	}
	if f.m == nil {
		f.m = map[string]any{}
	}
	var parsed any
	if err := json.Unmarshal([]byte(parts[1]), &parsed); err != nil {
		parsed = parts[1]
	}
	f.m[parts[0]] = parsed
	return nil
}

func defaultEndpoint(endpoint string) string {
	if endpoint != "" {
		return endpoint
	}
	return os.Getenv("REXQL_ENDPOINT")
}

func loadSchema(ctx context.Context, endpoint, file string, timeout time.Duration) (*schema.Schema, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		return introspection.Decode(data)
	}
	if endpoint == "" {
		return nil, fmt.Errorf("either -endpoint or -schema.file is required")
	}
	client := transport.New(endpoint, transport.WithTimeout(timeout))
	return client.Introspect(ctx)
}

func cmdSynthesize(args []string) error {
	endpoint := ""
	schemaFile := ""
	path := ""
	timeout := 10 * time.Second
	var req requireFlag

	fs := flag.NewFlagSet("synthesize", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&endpoint, "endpoint", endpoint, "GraphQL endpoint")
	fs.StringVar(&schemaFile, "schema.file", schemaFile, "Introspection JSON file")
	fs.StringVar(&path, "path", path, "Traversal path")
	fs.Var(&req, "require", "Explicit field spec entry")
	fs.DurationVar(&timeout, "timeout", timeout, "Introspection request timeout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, synthesizeUsage)
		return err
	}

	sch, err := loadSchema(context.Background(), defaultEndpoint(endpoint), schemaFile, timeout)
	if err != nil {
		return err
	}
	res, err := synth.Synthesize(sch, path, req.cfg)
	if err != nil {
		return err
	}

	fmt.Print(res.Text())
	if res.Description != "" {
		fmt.Printf("\n# %s\n", res.Description)
	}
	for _, key := range res.SpecOrder {
		fmt.Printf("# %s: %s\n", key, res.Specs[key].Title)
	}
	return nil
}

func cmdFetch(args []string) error {
	endpoint := ""
	path := ""
	timeout := 10 * time.Second
	otelEndpoint := ""
	otelService := "rexql"
	var req requireFlag
	var vars varFlag

	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&endpoint, "endpoint", endpoint, "GraphQL endpoint")
	fs.StringVar(&path, "path", path, "Traversal path")
	fs.Var(&req, "require", "Explicit field spec entry")
	fs.Var(&vars, "var", "Query variable")
	fs.DurationVar(&timeout, "timeout", timeout, "Per-request timeout")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, fetchUsage)
		return err
	}
	endpoint = defaultEndpoint(endpoint)
	if endpoint == "" {
		fmt.Fprint(os.Stderr, fetchUsage)
		return fmt.Errorf("-endpoint is required")
	}

	ctx := context.Background()
	bus := eventbus.New()
	shutdown, err := otel.Setup(bus, otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	client := transport.New(endpoint, transport.WithTimeout(timeout))
	sch, err := client.Introspect(ctx)
	if err != nil {
		return err
	}
	res, err := synth.Synthesize(sch, path, req.cfg)
	if err != nil {
		return err
	}

	registry := resource.NewRegistry(resource.WithBus(bus))
	query := resource.DefineQuery(registry, resource.QueryConfig[map[string]any]{
		Name:   path,
		Client: client,
		Query:  res.Text(),
	})
	data, err := query.Load(ctx, vars.m)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func cmdIntrospect(args []string) error {
	endpoint := ""
	outFile := ""
	timeout := 10 * time.Second

	fs := flag.NewFlagSet("introspect", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&endpoint, "endpoint", endpoint, "GraphQL endpoint")
	fs.StringVar(&outFile, "out", outFile, "Output file")
	fs.DurationVar(&timeout, "timeout", timeout, "Request timeout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, introspectUsage)
		return err
	}
	endpoint = defaultEndpoint(endpoint)
	if endpoint == "" {
		fmt.Fprint(os.Stderr, introspectUsage)
		return fmt.Errorf("-endpoint is required")
	}

	client := transport.New(endpoint, transport.WithTimeout(timeout))
	data, err := client.Do(context.Background(), introspection.Query, nil)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return err
	}
	pretty.WriteByte('\n')
	if outFile != "" {
		return os.WriteFile(outFile, pretty.Bytes(), 0644)
	}
	_, err = os.Stdout.Write(pretty.Bytes())
	return err
}
