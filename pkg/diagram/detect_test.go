package diagram

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		{"Flowchart", "flowchart TD\nA --> B", TypeFlowchart},
		{"Graph", "graph LR", TypeFlowchart},
		{"Uppercase", "FLOWCHART TD", TypeFlowchart},
		{"LeadingCommentsAndBlanks", "  %% title\n\n   sequenceDiagram\n", TypeSequence},
		{"StateV2", "stateDiagram-v2", TypeState},
		{"Class", "classDiagram", TypeClass},
		{"ER", "erDiagram", TypeER},
		{"Git", "gitGraph", TypeGit},
		{"PieWithTitle", "pie title Pets", TypePie},
		{"C4", "C4Container", TypeC4},
		{"Architecture", "architecture-beta", TypeArchitecture},
		{"ArchitectureWithoutBeta", "architecture", TypeUnknown},
		{"XYChart", "xychart-beta", TypeXYChart},
		{"Kanban", "kanban", TypeKanban},
		{"NoWordBoundary", "pieChart", TypeUnknown},
		{"OnlyFirstContentLine", "hello\nflowchart TD", TypeUnknown},
		{"Empty", "", TypeUnknown},
		{"OnlyComments", "%% a\n%% b", TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestHasKeyword(t *testing.T) {
	tests := []struct {
		s, kw string
		want  bool
	}{
		{"graph", "graph", true},
		{"graph TD", "graph", true},
		{"Graph;", "graph", true},
		{"graphs", "graph", false},
		{"graph_x", "graph", false},
		{"gra", "graph", false},
	}
	for _, tt := range tests {
		if got := HasKeyword(tt.s, tt.kw); got != tt.want {
			t.Errorf("HasKeyword(%q, %q) = %v, want %v", tt.s, tt.kw, got, tt.want)
		}
	}
}
