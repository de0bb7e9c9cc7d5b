package cli

import (
	"context"
	"testing"

	"cybersense-learning-service/internal/infra/memory"
)

func TestLoadDemoContent(t *testing.T) {
	store := memory.NewContentStore()
	ctx := context.Background()

	if err := loadDemoContent(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	modules, err := store.ListModules(ctx)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(modules) != len(demoModules()) {
		t.Fatalf("got %d modules, want %d", len(modules), len(demoModules()))
	}
	for _, entry := range demoModules() {
		questions, err := store.ListQuestions(ctx, entry.module.ID, entry.quiz.ID)
		if err != nil {
			t.Fatalf("list questions for %s: %v", entry.quiz.ID, err)
		}
		if len(questions) != len(entry.questions) {
			t.Fatalf("quiz %s has %d questions, want %d", entry.quiz.ID, len(questions), len(entry.questions))
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"start": false, "migrate": false, "seed": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
