package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/audit"
	"github.com/matzehuels/supplychain/pkg/cargo"
	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/integrations/crates"
)

const cratesIO = "registry+https://github.com/rust-lang/crates.io-index"

type fakeLoader struct {
	graph *deps.Graph
	err   error
	args  cargo.MetadataArgs
}

func (f *fakeLoader) Load(_ context.Context, args cargo.MetadataArgs) (*deps.Graph, error) {
	f.args = args
	return f.graph, f.err
}

// blockingRunner stands in for a cargo that never finishes.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ string, _ []string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeOwners map[string][]crates.Owner

func (f fakeOwners) FetchOwners(_ context.Context, crate string, _ bool) ([]crates.Owner, error) {
	owners, ok := f[crate]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "crate %s not found", crate)
	}
	return owners, nil
}

func testGraph() *deps.Graph {
	return deps.NewGraph([]*deps.Package{
		{ID: "app", Name: "app", Version: "0.1.0", Dependencies: []deps.Dependency{
			{Name: "serde", Req: "^1.0", Kind: deps.KindNormal},
			{Name: "rand", Req: "^0.8", Kind: deps.KindNormal},
			{Name: "proptest", Req: "^1.4", Kind: deps.KindDevelopment},
		}},
		{ID: "serde", Name: "serde", Version: "1.0.190", Source: cratesIO},
		{ID: "proptest", Name: "proptest", Version: "1.4.0", Source: cratesIO},
		{ID: "rand", Name: "rand", Version: "0.8.5", Source: "git+https://github.com/me/rand#1a2b"},
	}, []deps.PackageID{"app"})
}

func testOwners() fakeOwners {
	return fakeOwners{
		"serde": {
			{Login: "dtolnay", Kind: crates.KindUser, Name: "David Tolnay"},
			{Login: "github:serde-rs:publish", Kind: crates.KindTeam, Name: "publish"},
		},
		"proptest": {
			{Login: "altsysrq", Kind: crates.KindUser},
		},
	}
}

type result struct {
	stdout, stderr string
	err            error
}

// execute runs the root command with fakes in place of cargo and crates.io.
func execute(t *testing.T, loader audit.GraphLoader, owners fakeOwners, args ...string) result {
	t.Helper()
	t.Setenv("SUPPLYCHAIN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs, stdout, stderr bytes.Buffer
	c := New(&logs, log.InfoLevel)
	c.spinners = false
	c.loader = loader
	if owners != nil {
		c.owners = owners
	}

	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestCratesCommand(t *testing.T) {
	res := execute(t, &fakeLoader{graph: testGraph()}, testOwners(), "crates")
	if res.err != nil {
		t.Fatalf("crates: %v", res.err)
	}

	want := "\nDependency crates with the people and teams that can publish them to crates.io:\n\n" +
		"1. serde: team \"github:serde-rs:publish\", dtolnay\n" +
		"2. proptest: altsysrq\n"
	if !strings.HasPrefix(res.stdout, want) {
		t.Errorf("stdout =\n%s\nwant prefix\n%s", res.stdout, want)
	}
	if !strings.Contains(res.stdout, "issues/2868") {
		t.Error("stdout should carry the invitations note")
	}

	for _, s := range []string{
		"The following crates will be ignored because they come from a local directory:\n - app\n",
		"Cannot audit the following crates because they are not from crates.io:\n - rand\n",
	} {
		if !strings.Contains(res.stderr, s) {
			t.Errorf("stderr missing %q:\n%s", s, res.stderr)
		}
	}
}

func TestCratesCommandNoDev(t *testing.T) {
	loader := &fakeLoader{graph: testGraph()}
	res := execute(t, loader, testOwners(), "crates", "--no-dev")
	if res.err != nil {
		t.Fatalf("crates: %v", res.err)
	}
	if !loader.args.NoDev {
		t.Error("--no-dev was not passed to the loader")
	}
	if strings.Contains(res.stdout, "proptest") {
		t.Errorf("dev-only crate listed:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "1. serde:") {
		t.Errorf("serde missing:\n%s", res.stdout)
	}
}

func TestCratesCommandEmpty(t *testing.T) {
	g := deps.NewGraph([]*deps.Package{{ID: "app", Name: "app", Version: "0.1.0"}}, []deps.PackageID{"app"})
	res := execute(t, &fakeLoader{graph: g}, fakeOwners{}, "crates")
	if res.err != nil {
		t.Fatalf("crates: %v", res.err)
	}
	if strings.Contains(res.stdout, "2868") {
		t.Error("invitations note printed for an empty list")
	}
}

func TestCratesCommandPartialFailure(t *testing.T) {
	owners := testOwners()
	delete(owners, "proptest")
	res := execute(t, &fakeLoader{graph: testGraph()}, owners, "crates")
	if res.err != nil {
		t.Fatalf("crates: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Could not fetch publishers for: proptest") {
		t.Errorf("stderr missing failure warning:\n%s", res.stderr)
	}
}

func TestCratesCommandLoadError(t *testing.T) {
	loadErr := errors.New(errors.ErrCodeSourceFetch, "error: could not find `Cargo.toml`\n")
	res := execute(t, &fakeLoader{err: loadErr}, testOwners(), "crates")
	if !errors.Is(res.err, errors.ErrCodeSourceFetch) {
		t.Fatalf("err = %v, want SOURCE_FETCH", res.err)
	}
	if res.stdout != "" {
		t.Errorf("stdout should be empty, got %q", res.stdout)
	}
}

func TestPublishersCommand(t *testing.T) {
	res := execute(t, &fakeLoader{graph: testGraph()}, testOwners(), "publishers", "--diffable")
	if res.err != nil {
		t.Fatalf("publishers: %v", res.err)
	}

	users := strings.Index(res.stdout, "The following individuals")
	teams := strings.Index(res.stdout, "All members of the following teams")
	if users < 0 || teams < 0 || users > teams {
		t.Fatalf("sections missing or out of order:\n%s", res.stdout)
	}
	for _, s := range []string{"dtolnay", "altsysrq", `team "github:serde-rs:publish"`, "GitHub teams are black boxes"} {
		if !strings.Contains(res.stdout, s) {
			t.Errorf("stdout missing %q", s)
		}
	}
}

func TestJSONCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "Cargo.toml")
	if err := os.WriteFile(manifest, []byte("[package]\nname = \"app\"\nversion = \"0.1.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := execute(t, &fakeLoader{graph: testGraph()}, testOwners(), "json", "--manifest-path", manifest)
	if res.err != nil {
		t.Fatalf("json: %v", res.err)
	}

	var got struct {
		Project        string                     `json:"project"`
		UserPublishers map[string]json.RawMessage `json:"user_publishers"`
		TeamPublishers map[string]json.RawMessage `json:"team_publishers"`
		NotAudited     struct {
			LocalCrates   []string `json:"local_crates"`
			ForeignCrates []string `json:"foreign_crates"`
		} `json:"not_audited"`
		CratesIOCrates map[string][]string `json:"crates_io_crates"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if got.Project != "app" {
		t.Errorf("project = %q, want app", got.Project)
	}
	if len(got.UserPublishers) != 2 || len(got.TeamPublishers) != 1 {
		t.Errorf("users=%d teams=%d, want 2 and 1", len(got.UserPublishers), len(got.TeamPublishers))
	}
	if strings.Join(got.NotAudited.ForeignCrates, ",") != "rand" {
		t.Errorf("foreign = %v", got.NotAudited.ForeignCrates)
	}
	if strings.Join(got.CratesIOCrates["serde"], ",") != "github:serde-rs:publish,dtolnay" {
		t.Errorf("serde owners = %v", got.CratesIOCrates["serde"])
	}
}

func TestGraphCommand(t *testing.T) {
	res := execute(t, &fakeLoader{graph: testGraph()}, nil, "graph", "--no-dev")
	if res.err != nil {
		t.Fatalf("graph: %v", res.err)
	}
	for _, s := range []string{
		`"app" [label="app", fillcolor=lightblue];`,
		`"rand" [label="rand", fillcolor=salmon];`,
		`"app" -> "serde" [style=solid];`,
	} {
		if !strings.Contains(res.stdout, s) {
			t.Errorf("DOT output missing %q:\n%s", s, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "proptest") {
		t.Error("dev-only crate in --no-dev graph")
	}
}

func TestGraphCommandOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deps.dot")
	res := execute(t, &fakeLoader{graph: testGraph()}, nil, "graph", "-o", out)
	if res.err != nil {
		t.Fatalf("graph: %v", res.err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("unexpected file content: %q", data)
	}
	if !strings.Contains(res.stderr, out) {
		t.Errorf("stderr should name the written file: %q", res.stderr)
	}
}

func TestGraphCommandUnknownFormat(t *testing.T) {
	res := execute(t, &fakeLoader{graph: testGraph()}, nil, "graph", "-f", "png")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown format") {
		t.Errorf("err = %v, want unknown format", res.err)
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("SUPPLYCHAIN_CRATES_CONCURRENCY", "0")
	res := execute(t, &fakeLoader{graph: testGraph()}, testOwners(), "crates")
	if !errors.Is(res.err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", res.err)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("SUPPLYCHAIN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir := filepath.Join(cacheHome, appName)
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ab", "cdef.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) (string, string) {
		t.Helper()
		var stdout, stderr bytes.Buffer
		root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
		root.SetOut(&stdout)
		root.SetErr(&stderr)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return stdout.String(), stderr.String()
	}

	if out, _ := run("cache", "path"); strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
	if _, errOut := run("cache", "clear"); !strings.Contains(errOut, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", errOut)
	}
	if _, errOut := run("cache", "clear"); !strings.Contains(errOut, "Cache is empty") {
		t.Errorf("second clear output = %q", errOut)
	}
}

func TestJSONCommandProjectFromWorkspaceRoot(t *testing.T) {
	g := testGraph()
	g.Root = "/work/shop"

	res := execute(t, &fakeLoader{graph: g}, testOwners(), "json")
	if res.err != nil {
		t.Fatalf("json: %v", res.err)
	}
	var got struct {
		Project string `json:"project"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Project != "shop" {
		t.Errorf("project = %q, want shop", got.Project)
	}
}

func TestMetadataTimeout(t *testing.T) {
	t.Setenv("SUPPLYCHAIN_METADATA_TIMEOUT", "50ms")
	res := execute(t, &cargo.Loader{Runner: blockingRunner{}}, testOwners(), "crates")
	if !errors.Is(res.err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", res.err)
	}
}
