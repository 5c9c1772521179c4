package chunk

import (
	"context"
	"strings"
	"testing"
)

const sampleSource = `package sample

import "fmt"

func Add(a, b int) int {
	return a + b
}

type Point struct {
	X, Y int
}

var Greeting = "hi"
`

func TestChunkFileSplitsTopLevelDecls(t *testing.T) {
	docs, err := ChunkFile(context.Background(), "sample.go", []byte(sampleSource))
	if err != nil {
		t.Fatalf("ChunkFile: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d docs, want 3: %+v", len(docs), docs)
	}

	var sawAdd, sawPoint, sawGreeting bool
	for _, d := range docs {
		switch {
		case strings.Contains(d.Path, "#Add"):
			sawAdd = true
			if !strings.Contains(d.Text, "func Add") {
				t.Errorf("Add doc missing function text: %q", d.Text)
			}
		case strings.Contains(d.Path, "#Point"):
			sawPoint = true
		case strings.Contains(d.Path, "#Greeting"):
			sawGreeting = true
		}
		if d.StartLine <= 0 || d.EndLine < d.StartLine {
			t.Errorf("invalid line range [%d,%d] for %s", d.StartLine, d.EndLine, d.Path)
		}
	}
	if !sawAdd || !sawPoint || !sawGreeting {
		t.Errorf("missing expected declarations: add=%v point=%v greeting=%v", sawAdd, sawPoint, sawGreeting)
	}
}

func TestChunkFileFallsBackWhenNoDeclarations(t *testing.T) {
	docs, err := ChunkFile(context.Background(), "empty.go", []byte("package empty\n"))
	if err != nil {
		t.Fatalf("ChunkFile: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1 whole-file fallback", len(docs))
	}
	if docs[0].Path != "empty.go" {
		t.Errorf("fallback doc path = %q, want empty.go", docs[0].Path)
	}
}
