package workflow

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectTechStack(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := DetectTechStack(dir); len(got) != 0 {
		t.Fatalf("empty dir detected %v", got)
	}

	write("package.json", `{"dependencies":{"react":"^18.0.0"}}`)
	write("tsconfig.json", `{}`)
	write("go.mod", "module example.com/app\n")
	write("pyproject.toml", "[project]\n")

	want := []string{"javascript", "react", "typescript", "go", "python"}
	if got := DetectTechStack(dir); !reflect.DeepEqual(got, want) {
		t.Errorf("DetectTechStack = %v, want %v", got, want)
	}
}

func TestDetectTechStackNoReact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"express":"^4"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	want := []string{"javascript"}
	if got := DetectTechStack(dir); !reflect.DeepEqual(got, want) {
		t.Errorf("DetectTechStack = %v, want %v", got, want)
	}
}

func TestDetectTechStackRequirementsFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := []string{"python"}
	if got := DetectTechStack(dir); !reflect.DeepEqual(got, want) {
		t.Errorf("DetectTechStack = %v, want %v", got, want)
	}
}
