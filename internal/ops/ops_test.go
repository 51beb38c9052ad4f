package ops

import (
	"testing"

	"github.com/ktruong/todomd/internal/errors"
)

const sampleText = `# Work #FF8000
- [ ] buy milk +errands due:2025-01-15
- [/] draft review (a) +work
## Alpha
- [x] shipped +work

# Personal
- [ ] water plants
`

func loadSample(t *testing.T) *Document {
	t.Helper()
	doc, err := LoadFromText(sampleText)
	if err != nil {
		t.Fatalf("LoadFromText failed: %v", err)
	}
	return doc
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("42")
	if err != nil {
		t.Fatalf("ParseRef failed: %v", err)
	}
	if ref.ByID || ref.Line != 42 {
		t.Errorf("ref = %+v, want line 42", ref)
	}

	ref, err = ParseRef("01JC0000000000000000000000")
	if err != nil {
		t.Fatalf("ParseRef failed: %v", err)
	}
	if !ref.ByID {
		t.Errorf("ref = %+v, want ID mode", ref)
	}

	if _, err := ParseRef(""); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty ref: err = %v", err)
	}
	if _, err := ParseRef("0"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("line 0: err = %v", err)
	}
}

func TestValidateRef(t *testing.T) {
	if _, err := ValidateRef("abc", 3); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("both modes: err = %v", err)
	}
	if _, err := ValidateRef("", 0); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("neither mode: err = %v", err)
	}

	ref, err := ValidateRef("abc", 0)
	if err != nil || !ref.ByID || ref.ID != "abc" {
		t.Errorf("id mode: ref=%+v err=%v", ref, err)
	}

	ref, err = ValidateRef("", 7)
	if err != nil || ref.ByID || ref.Line != 7 {
		t.Errorf("line mode: ref=%+v err=%v", ref, err)
	}
}

func TestResolveTask_ByLineAndByID(t *testing.T) {
	doc := loadSample(t)

	task, err := doc.ResolveTask(Ref{Line: 2})
	if err != nil {
		t.Fatalf("ResolveTask by line failed: %v", err)
	}
	if task.Text != "buy milk +errands due:2025-01-15" {
		t.Errorf("task.Text = %q", task.Text)
	}

	same, err := doc.ResolveTask(Ref{ByID: true, ID: task.ID})
	if err != nil {
		t.Fatalf("ResolveTask by ID failed: %v", err)
	}
	if same != task {
		t.Error("ID and line must resolve to the same instance")
	}

	if _, err := doc.ResolveTask(Ref{Line: 999}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing line: err = %v", err)
	}
}

func TestResolveGroup(t *testing.T) {
	doc := loadSample(t)

	g, err := doc.ResolveGroup(Ref{Line: 1})
	if err != nil {
		t.Fatalf("ResolveGroup failed: %v", err)
	}
	if g.Name != "Work" || g.Color != "#FF8000" {
		t.Errorf("group = %q color %q", g.Name, g.Color)
	}

	if _, err := doc.ResolveGroup(Ref{ByID: true, ID: "nope"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing id: err = %v", err)
	}
}

func TestGroups_PreOrder(t *testing.T) {
	doc := loadSample(t)
	groups := doc.Groups()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Name != "Work" || groups[1].Name != "Alpha" || groups[2].Name != "Personal" {
		t.Errorf("order = %q, %q, %q", groups[0].Name, groups[1].Name, groups[2].Name)
	}
}

func TestGroupOf(t *testing.T) {
	doc := loadSample(t)
	task, _ := doc.ResolveTask(Ref{Line: 5})
	g := doc.GroupOf(task)
	if g == nil || g.Name != "Alpha" {
		t.Errorf("GroupOf = %v, want Alpha", g)
	}
}
