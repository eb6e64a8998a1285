package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pidlayout/pkg/cache"
	"github.com/matzehuels/pidlayout/pkg/config"
	"github.com/matzehuels/pidlayout/pkg/diagram"
	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
	"github.com/matzehuels/pidlayout/pkg/session"
)

const testInput = `
metadata:
  drawing_number: PID-100
  title: Feed section
equipment:
  - {tag: P-101, type: pump}
  - {tag: V-101, type: tank}
connections:
  - {from: P-101, to: V-101}
instruments:
  - {tag: FT-101, equipment: P-101}
`

// isolate points config and cache lookups at temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvPath, filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"layout", "rearrange", "preview", "validate", "schema", "serve", "config", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing command %q in %v", want, names)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"SVG, dot", []string{"svg", "dot"}},
		{"json,,msgpack", []string{"json", "msgpack"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("out/plant.diagram.json", "svg"); got != "out/plant.diagram.svg" {
		t.Errorf("artifactPath = %q", got)
	}
	if got := artifactPath("plant.diagram.json", "json"); got != "plant.diagram.json" {
		t.Errorf("artifactPath = %q", got)
	}
}

func TestSetupLoadsConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, "config.toml", `
[placement]
strategy = "grid"

[cache]
backend = "none"

[logging]
level = "debug"
file = "`+filepath.ToSlash(filepath.Join(dir, "pidlayout.log"))+`"
`)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.configPath = path
	if err := c.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer c.Close()

	if c.Config.Placement.Strategy != "grid" {
		t.Errorf("placement = %q", c.Config.Placement.Strategy)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}

	c.Logger.Info("hello")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "pidlayout.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !bytes.Contains(data, []byte("hello")) || !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Error("log line should reach both the terminal and the file")
	}
}

func TestSetupExplicitConfigMissing(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	if err := c.setup(); err == nil {
		t.Error("expected error for missing --config file")
	}
}

func TestSetupDefaultConfigMissing(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	if err := c.setup(); err != nil {
		t.Errorf("a missing default config should be ignored: %v", err)
	}
}

func TestNewCache(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Cache
		noCache bool
		check   func(cache.Cache) bool
	}{
		{"no-cache flag", config.Cache{Backend: config.BackendFile}, true, isNull},
		{"none backend", config.Cache{Backend: config.BackendNone}, false, isNull},
		{"default is file", config.Cache{}, false, isFile},
		{"file with dir", config.Cache{Backend: config.BackendFile, Dir: t.TempDir()}, false, isFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Cache = tt.cfg
			cc, err := c.newCache(ctx, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer cc.Close()
			if !tt.check(cc) {
				t.Errorf("unexpected cache type %T", cc)
			}
		})
	}
}

func isNull(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }
func isFile(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }

func TestNewSessionStore(t *testing.T) {
	isolate(t)

	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = config.BackendNone
	store, err := c.newSessionStore(cache.NewNullCache())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Errorf("none backend: got %T", store)
	}

	c.Config.Cache.Backend = config.BackendFile
	store, err = c.newSessionStore(cache.NewNullCache())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*session.FileStore); !ok {
		t.Errorf("file backend: got %T", store)
	}
}

func TestOptionsUsesConfigUnderFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Routing.Strategy = "smart"

	opts := c.options(pipeline.Options{Placement: "grid"})
	if opts.Placement != "grid" {
		t.Errorf("flag should win: placement = %q", opts.Placement)
	}
	if opts.Routing != "smart" {
		t.Errorf("config should fill: routing = %q", opts.Routing)
	}
	if opts.Logger != c.Logger {
		t.Error("options should carry the CLI logger")
	}
}

func TestLayoutAndRearrangeCommands(t *testing.T) {
	isolate(t)
	input := writeFile(t, "plant.yaml", testInput)
	out := filepath.Join(t.TempDir(), "plant.diagram.json")

	if err := runCLI(t, "layout", input, "-o", out, "-f", "dot", "--no-cache", "--annotations", "none"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	d, err := pidio.ImportDiagram(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(d.Equipment) != 2 || len(d.Routes) != 1 {
		t.Errorf("got %d equipment, %d routes", len(d.Equipment), len(d.Routes))
	}
	if _, err := os.Stat(artifactPath(out, "dot")); err != nil {
		t.Errorf("dot artifact: %v", err)
	}

	if err := runCLI(t, "rearrange", out, "--tag", "V-101", "--x", "200", "--y", "600", "--no-cache"); err != nil {
		t.Fatalf("rearrange: %v", err)
	}
	d, err = pidio.ImportDiagram(out)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := d.Node("V-101"); n.Position != (diagram.Point{X: 200, Y: 600}) {
		t.Errorf("V-101 at %v", n.Position)
	}
}

func TestLayoutDefaultOutput(t *testing.T) {
	isolate(t)
	input := writeFile(t, "plant.yaml", testInput)

	if err := runCLI(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	want := filepath.Join(filepath.Dir(input), "plant.diagram.json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output: %v", err)
	}
}

func TestLayoutErrors(t *testing.T) {
	isolate(t)
	input := writeFile(t, "plant.yaml", testInput)

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"layout", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"bad placement", []string{"layout", input, "--placement", "spiral", "--no-cache"}},
		{"bad format", []string{"layout", input, "-f", "pdf", "--no-cache"}},
		{"rearrange without tag", []string{"rearrange", input}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPreviewDOT(t *testing.T) {
	isolate(t)
	input := writeFile(t, "plant.yaml", testInput)
	out := filepath.Join(t.TempDir(), "plant.diagram.json")
	if err := runCLI(t, "layout", input, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	dot := filepath.Join(t.TempDir(), "plant.dot")
	if err := runCLI(t, "preview", out, "-f", "dot", "-o", dot); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("P-101")) {
		t.Error("DOT output should mention P-101")
	}

	if err := runCLI(t, "preview", out, "-f", "png"); err == nil {
		t.Error("expected error for png preview")
	}
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	if err := runCLI(t, "validate", writeFile(t, "plant.yaml", testInput)); err != nil {
		t.Errorf("validate: %v", err)
	}
	if err := runCLI(t, "validate", writeFile(t, "bad.yaml", "equipment: [")); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if err := runCLI(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
	if err := runCLI(t, "--config", path, "config", "show"); err != nil {
		t.Errorf("config show: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "k"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestExamples(t *testing.T) {
	isolate(t)
	inputs, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.*"))
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range inputs {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if filepath.Ext(path) == ".toml" {
				if _, err := config.Load(path); err != nil {
					t.Errorf("load config: %v", err)
				}
				return
			}
			out := filepath.Join(t.TempDir(), "out.json")
			if err := runCLI(t, "layout", path, "-o", out, "--no-cache"); err != nil {
				t.Errorf("layout: %v", err)
			}
		})
	}
}

func TestFlagCompletions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	layout := c.layoutCommand()

	tests := []struct {
		flag string
		want string
	}{
		{"placement", "equipment-type"},
		{"routing", "smart"},
		{"instruments", "by-loop"},
		{"direction", "top-to-bottom"},
		{"annotations", "none"},
		{"format", "svg"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			fn, ok := layout.GetFlagCompletionFunc(tt.flag)
			if !ok {
				t.Fatalf("no completion registered for --%s", tt.flag)
			}
			values, _ := fn(layout, nil, "")
			if !slices.Contains(values, tt.want) {
				t.Errorf("--%s completions = %v, want %q among them", tt.flag, values, tt.want)
			}
		})
	}
}
